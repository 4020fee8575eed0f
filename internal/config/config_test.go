package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func memFS(t *testing.T, files map[string]string) *afero.Afero {
	t.Helper()
	fs := &afero.Afero{Fs: afero.NewMemMapFs()}
	for path, content := range files {
		if err := fs.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return fs
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(memFS(t, nil), "/etc/implore/config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FullFile(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/cfg.yaml": `
mode: message
title: Please answer
timeout: 5m
ui:
  executable: /usr/local/bin/implore
  terminal: ["gnome-terminal", "--wait", "--"]
log:
  level: debug
  file: /tmp/implore.log
`,
	})

	cfg, err := Load(fs, "/cfg.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Mode:    ModeMessage,
		Title:   "Please answer",
		Timeout: 5 * time.Minute,
		UI: UIConfig{
			Executable: "/usr/local/bin/implore",
			Terminal:   []string{"gnome-terminal", "--wait", "--"},
		},
		Log: LogConfig{
			Level:      "debug",
			File:       "/tmp/implore.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	fs := memFS(t, map[string]string{"/cfg.yaml": "timeout: 30s\n"})

	cfg, err := Load(fs, "/cfg.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != ModeQuiz {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeQuiz)
	}
	if cfg.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", cfg.Title, DefaultTitle)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "mode: [", "failed to parse config file"},
		{"bad mode", "mode: wizard", "mode must be"},
		{"negative timeout", "timeout: -1s", "timeout must not be negative"},
		{"bad log level", "log:\n  level: loud", "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFS(t, map[string]string{"/cfg.yaml": tt.content})
			_, err := Load(fs, "/cfg.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), "implore/config.yaml") && !strings.HasSuffix(DefaultPath(), `implore\config.yaml`) {
		t.Errorf("unexpected default path: %s", DefaultPath())
	}
}
