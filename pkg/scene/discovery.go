package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene the CLI can render.
type SceneInfo struct {
	ID          string // "quad", or "ply:<name>"
	Name        string
	DisplayName string
	Description string
	Group       string
	Type        string // "builtin" or "ply"
	FilePath    string // ply only
	Variant     string
}

// SceneGroup is a named list of scenes.
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

const builtinGroup = "Built-in Scenes"

var builtinDescriptions = map[string]string{
	"quad":       "Single quad split into one triangle pair",
	"grid":       "16x16 grid of quads with shared vertices",
	"cube":       "Unit cube, twelve triangles in six pairs",
	"shapes":     "Cube, pyramid and icosahedron on a ground quad",
	"cornell":    "Cornell box with two blocks, built from quads only",
	"spheregrid": "9x9 grid of subdivided icospheres on a ground quad",
}

// ListPLYScenes returns the PLY meshes found directly in dir, sorted by
// display name. A missing directory yields an empty list.
func ListPLYScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.ply"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParsePLYMetadata(filePath)
		if err != nil {
			continue
		}
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParsePLYMetadata reads "comment Key: value" lines from a PLY header.
// Recognized keys are Scene, Variant, Description and Group. Unreadable
// files get fallback values derived from the file name.
func ParsePLYMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          "ply:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "PLY Meshes",
		Type:        "ply",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "end_header" {
			break
		}
		content, ok := strings.CutPrefix(line, "comment ")
		if !ok {
			continue
		}
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			if value != "" {
				info.Name = value
			}
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			if value != "" {
				info.Group = value
			}
		}
	}

	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}
	return info, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the PLY meshes in
// dir, grouped by their Group field. The built-in group comes first, the
// rest alphabetically.
func ListAllScenes(dir string) ([]SceneGroup, error) {
	var all []SceneInfo
	for _, name := range BuiltinNames() {
		all = append(all, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			DisplayName: titleCase(name),
			Description: builtinDescriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	plys, err := ListPLYScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list PLY scenes: %w", err)
	}
	all = append(all, plys...)

	groupMap := make(map[string][]SceneInfo)
	var groupNames []string
	for _, s := range all {
		if _, seen := groupMap[s.Group]; !seen && s.Group != builtinGroup {
			groupNames = append(groupNames, s.Group)
		}
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// titleCase converts a file-name style string to title case,
// e.g. "stanford-bunny" -> "Stanford Bunny".
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
