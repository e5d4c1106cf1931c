package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/df07/go-raykernel/pkg/texture"
)

// LoadScene resolves a scene reference to an uncommitted scene. A reference
// is a built-in scene name, a "ply:<name>" ID found in dir, or a path to a
// PLY file.
func LoadScene(ref, dir string) (*scene.Scene, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty scene name")
	}
	for _, name := range scene.BuiltinNames() {
		if ref == name {
			return scene.Builtin(name)
		}
	}

	path := ref
	if name, ok := strings.CutPrefix(ref, "ply:"); ok {
		if !validPLYName(name) {
			return nil, fmt.Errorf("invalid scene name %q", ref)
		}
		path = filepath.Join(dir, name+".ply")
	} else if !strings.EqualFold(filepath.Ext(ref), ".ply") {
		if _, err := os.Stat(ref); err != nil {
			return nil, fmt.Errorf("unknown scene %q", ref)
		}
	}

	mesh, err := LoadPLY(path)
	if err != nil {
		return nil, err
	}
	s := scene.New()
	if _, err := s.AddMesh(mesh); err != nil {
		return nil, err
	}
	return s, nil
}

// validPLYName reports whether name refers to a file directly inside the
// scene directory.
func validPLYName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// SetAlphaTexture installs an alpha-test filter on every mesh of s that has
// texture coordinates and returns how many meshes were affected. It must be
// called before Commit.
func SetAlphaTexture(s *scene.Scene, tex *texture.Texture, threshold float32) int {
	n := 0
	for id := 0; id < s.Meshes(); id++ {
		m := s.Mesh(int32(id))
		if len(m.TexCoords) == 0 {
			continue
		}
		m.Filter = texture.AlphaFilter(tex, m.TexCoordAt, threshold)
		n++
	}
	return n
}
