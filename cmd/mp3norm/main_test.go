package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/mp3norm/internal/config"
	"github.com/handiism/mp3norm/internal/extract"
	"github.com/handiism/mp3norm/internal/model"
)

// mpegFrame is a silent MPEG-1 Layer III frame.
var mpegFrame = append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config=" + filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_NoModeFails(t *testing.T) {
	_, err := execute(t, t.TempDir())
	if !errors.Is(err, config.ErrNoMode) {
		t.Errorf("error = %v, want ErrNoMode", err)
	}
}

func TestRoot_AlbumWithoutDriverFails(t *testing.T) {
	_, err := execute(t, "-a", t.TempDir())
	if !errors.Is(err, config.ErrNoDriver) {
		t.Errorf("error = %v, want ErrNoDriver", err)
	}
}

func TestRoot_MissingInputFails(t *testing.T) {
	_, err := execute(t, "-e", filepath.Join(t.TempDir(), "missing"))
	if !config.IsConfigError(err) {
		t.Errorf("error = %v, want a ConfigError", err)
	}
}

func TestRoot_InvalidPatternFails(t *testing.T) {
	_, err := execute(t, "--extract=(unclosed", t.TempDir())
	if !config.IsConfigError(err) {
		t.Errorf("error = %v, want a ConfigError", err)
	}
}

func TestRoot_ExtractRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Artist - Title.mp3"), mpegFrame, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-e", "--summary", dir)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{"[1/1] Artist - Title.mp3", "updated", "Done: 1 updated", "Title"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Tags now match the filename, so the file is reported as skipped
	// even without -v.
	out, err = execute(t, "-e", dir)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	for _, want := range []string{"[1/1] Artist - Title.mp3", "  skipped", "Done: 0 updated, 1 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("second run output missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_NonAudioFileLoadFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Artist - Title.mp3")
	junk := []byte("this is definitely not an mp3 file at all")
	if err := os.WriteFile(path, junk, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-e", dir)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(out, "load-failed") || !strings.Contains(out, "1 failed") {
		t.Errorf("output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, junk) {
		t.Errorf("file rewritten to %q", data)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantModes   config.Modes
		wantPattern string
		wantRes     int
		wantDriver  string
	}{
		{
			name:        "bare extract keeps configured pattern",
			args:        []string{"-e"},
			wantModes:   config.Modes{Extract: true},
			wantPattern: "configured",
			wantRes:     800,
		},
		{
			name:        "explicit pattern",
			args:        []string{"--extract=(?P<title>.*)"},
			wantModes:   config.Modes{Extract: true},
			wantPattern: "(?P<title>.*)",
			wantRes:     800,
		},
		{
			name:        "bare cover keeps configured resolution",
			args:        []string{"-c", "-d", "/bin/gd"},
			wantModes:   config.Modes{Cover: true},
			wantPattern: "configured",
			wantRes:     800,
			wantDriver:  "/bin/gd",
		},
		{
			name:        "explicit resolution",
			args:        []string{"-c=1000", "-a"},
			wantModes:   config.Modes{Album: true, Cover: true},
			wantPattern: "configured",
			wantRes:     1000,
		},
		{
			name:        "explicit default resolution overrides config",
			args:        []string{"-c=600"},
			wantModes:   config.Modes{Cover: true},
			wantPattern: "configured",
			wantRes:     600,
		},
		{
			name:        "explicit default pattern overrides config",
			args:        []string{"--extract=" + extract.DefaultPattern},
			wantModes:   config.Modes{Extract: true},
			wantPattern: extract.DefaultPattern,
			wantRes:     800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			settings := config.DefaultSettings()
			settings.ExtractPattern = "configured"
			settings.CoverResolution = 800

			var flags rootFlags
			flags.extract, _ = cmd.Flags().GetString("extract")
			flags.album, _ = cmd.Flags().GetBool("album")
			flags.cover, _ = cmd.Flags().GetString("cover")
			flags.driver, _ = cmd.Flags().GetString("driver")

			opts, err := applyFlags(cmd, &flags, settings)
			if err != nil {
				t.Fatalf("applyFlags() error = %v", err)
			}
			if opts.Modes != tt.wantModes {
				t.Errorf("modes = %+v, want %+v", opts.Modes, tt.wantModes)
			}
			if settings.ExtractPattern != tt.wantPattern {
				t.Errorf("pattern = %q, want %q", settings.ExtractPattern, tt.wantPattern)
			}
			if settings.CoverResolution != tt.wantRes {
				t.Errorf("resolution = %d, want %d", settings.CoverResolution, tt.wantRes)
			}
			if settings.Driver != tt.wantDriver {
				t.Errorf("driver = %q, want %q", settings.Driver, tt.wantDriver)
			}
		})
	}
}

func TestRoot_InvalidResolutionFails(t *testing.T) {
	_, err := execute(t, "-c=big", t.TempDir())
	if !config.IsConfigError(err) {
		t.Errorf("error = %v, want a ConfigError", err)
	}
}

func TestConfigCommand_PrintsTOML(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(out, "extension = ") || !strings.Contains(out, "cover_resolution = 600") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	result := &model.RunResult{}
	result.Add(model.Outcome{Index: 1, Filename: "a.mp3", Status: model.StatusSkipped})
	result.Add(model.Outcome{
		Index:    2,
		Filename: "b.mp3",
		Status:   model.StatusUpdated,
		Final:    &model.TrackMetadata{Artist: model.String("Artist"), HasCover: true},
	})

	table := renderSummary(result)
	for _, want := range []string{"a.mp3", "skipped", "b.mp3", "updated", "Artist", "----", "yes"} {
		if !strings.Contains(table, want) {
			t.Errorf("summary missing %q:\n%s", want, table)
		}
	}
}
