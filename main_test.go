package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-raykernel/pkg/log"
)

func TestAppCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"render", "bench", "info", "scenes", "list", "serve"} {
		if app.Command(name) == nil {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{"eyelight quad", []string{"--width", "16", "--height", "16", "quad"}, false},
		{"ng packets", []string{"--width", "24", "--height", "16", "--mode", "ng", "--packet", "8", "shapes"}, false},
		{"culling without pairs", []string{"--width", "16", "--height", "16", "--cull", "--no-pairs", "cube"}, false},
		{"unknown mode", []string{"--mode", "phong", "quad"}, true},
		{"bad packet width", []string{"--width", "16", "--height", "16", "--packet", "3", "quad"}, true},
		{"unknown scene", []string{"nonexistent"}, true},
		{"missing scene", []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frame.png")
			args := append([]string{"raykernel", "render", "--out", out}, tt.args...)
			err := newApp().Run(args)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %v, got nil", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("Expected output image, got %v", err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatalf("Expected PNG output, got %v", err)
			}
			if cfg.Width != 16 && cfg.Width != 24 {
				t.Errorf("Unexpected output width %d", cfg.Width)
			}
			if cfg.Height != 16 {
				t.Errorf("Expected height 16, got %d", cfg.Height)
			}
		})
	}
}

func TestBenchAndInfoCommands(t *testing.T) {
	if err := newApp().Run([]string{"raykernel", "bench", "--rays", "256", "--width", "4", "grid"}); err != nil {
		t.Errorf("Expected bench to succeed, got %v", err)
	}
	if err := newApp().Run([]string{"raykernel", "bench", "--rays", "16", "--width", "5"}); err == nil {
		t.Error("Expected error for packet width 5")
	}
	if err := newApp().Run([]string{"raykernel", "--scenes", t.TempDir(), "info"}); err != nil {
		t.Errorf("Expected info to succeed, got %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"verbose info", []string{"raykernel", "-v", "info"}},
		{"very verbose scenes", []string{"raykernel", "-vv", "scenes"}},
		{"list alias", []string{"raykernel", "list"}},
		{"version", []string{"raykernel", "--version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := newApp().Run(tt.args); err != nil {
				t.Errorf("Expected %v to succeed, got %v", tt.args, err)
			}
		})
	}
	log.SetLevel(log.Notice)
}
