package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/watertower/pkg/observability"
)

// execute runs the root command with args and returns what it printed
// through cobra's output writer.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCachePathCommand(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"xdg cache home", xdg, filepath.Join(xdg, appName)},
		{"home fallback", "", filepath.Join(home, ".cache", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			out, err := execute(t, New(&bytes.Buffer{}, LogInfo), "cache", "path")
			if err != nil {
				t.Fatalf("cache path: %v", err)
			}
			got := strings.TrimSpace(out)
			if got != tt.want {
				t.Errorf("cache path printed %q, want %q", got, tt.want)
			}

			dir, err := cacheDir()
			if err != nil {
				t.Fatal(err)
			}
			if got != dir {
				t.Errorf("cache path printed %q but analyses are cached in %q", got, dir)
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, New(&bytes.Buffer{}, LogInfo), "cache", "clear"); err != nil {
		t.Fatalf("clear before any run: %v", err)
	}

	if _, err := execute(t, New(&bytes.Buffer{}, LogInfo), "analyze", "-m", "3", "3", "1", "3"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if n := countFiles(t, dir); n == 0 {
		t.Fatal("analyze left nothing in the cache directory")
	}

	if _, err := execute(t, New(&bytes.Buffer{}, LogInfo), "cache", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}
