package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scrub-data/scrub/internal/testutil"
)

func TestBuild(t *testing.T) {
	// Build once for all subtests.
	repoRoot := testutil.FindRepoRoot(t)
	binary := filepath.Join(t.TempDir(), "scrub")

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/scrub/")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}

	t.Run("go build produces a scrub binary without errors", func(t *testing.T) {
		info, err := os.Stat(binary)
		if err != nil {
			t.Fatalf("binary not found: %v", err)
		}
		if info.Size() == 0 {
			t.Fatal("binary is empty")
		}
		// Verify it is executable.
		if info.Mode()&0111 == 0 {
			t.Fatal("binary is not executable")
		}
	})

	t.Run("scrub binary prints usage to stdout", func(t *testing.T) {
		cmd := exec.Command(binary)
		out, _ := cmd.Output()
		stdout := string(out)
		if !strings.Contains(strings.ToLower(stdout), "scrub") {
			t.Errorf("expected stdout to contain 'scrub', got: %q", stdout)
		}
	})

	t.Run("scrub binary exits with code 0", func(t *testing.T) {
		cmd := exec.Command(binary)
		err := cmd.Run()
		if err != nil {
			t.Errorf("expected exit code 0, got error: %v", err)
		}
	})
}
