package gitctx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

const twoFileDiff = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
+import "fmt"
diff --git a/deploy/.env b/deploy/.env
--- a/deploy/.env
+++ b/deploy/.env
@@ -1 +1 @@
+DB_PASSWORD=hunter2
diff --git a/old.go b/old.go
deleted file mode 100644
--- a/old.go
+++ /dev/null
@@ -1 +0,0 @@
-package old
`

func TestExtractFiles(t *testing.T) {
	files := extractFiles(twoFileDiff)
	want := []string{"main.go", "deploy/.env"}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestExtractFiles_Dedup(t *testing.T) {
	files := extractFiles("+++ b/main.go\n+++ b/main.go\n")
	if len(files) != 1 {
		t.Errorf("got %d files, want 1 (should dedup)", len(files))
	}
}

func TestSplitSections(t *testing.T) {
	sections := splitSections(twoFileDiff)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if strings.Join(sections, "") != twoFileDiff {
		t.Error("sections do not reassemble to the original diff")
	}
}

func TestSectionPath(t *testing.T) {
	sections := splitSections(twoFileDiff)
	for i, want := range []string{"main.go", "deploy/.env", "old.go"} {
		if got := sectionPath(sections[i]); got != want {
			t.Errorf("sectionPath(section %d) = %q, want %q", i, got, want)
		}
	}
	if got := sectionPath("diff --git a/x b/x\nBinary files differ\n"); got != "" {
		t.Errorf("sectionPath without headers = %q, want empty", got)
	}
}

func TestFilterExcluded(t *testing.T) {
	result := filterExcluded(twoFileDiff, []string{"**/.env"})
	if strings.Contains(result, "hunter2") {
		t.Error("deploy/.env should be excluded")
	}
	if !strings.Contains(result, "main.go") || !strings.Contains(result, "old.go") {
		t.Error("other files should be kept")
	}
}

func TestDiffEmpty(t *testing.T) {
	if !(Diff{Text: "\n  \n"}).Empty() {
		t.Error("whitespace diff should be empty")
	}
	if (Diff{Text: twoFileDiff}).Empty() {
		t.Error("real diff should not be empty")
	}
}

func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	run("init", "-q")
	write("main.py", "print('hello')\n")
	write("config/.env", "TOKEN=abc\n")
	run("add", ".")
	run("commit", "-q", "-m", "initial")

	write("main.py", "print('hello')\nx = 1/0\n")
	write("config/.env", "TOKEN=changed\n")
	write("staged.py", "y = 2\n")
	run("add", "staged.py")
	return dir
}

func TestCollect_Unstaged(t *testing.T) {
	dir := setupTestRepo(t)

	d, err := Collect(context.Background(), "", Options{Dir: dir, Exclude: []string{"**/.env"}})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if d.Mode != Unstaged {
		t.Errorf("Mode = %q, want %q", d.Mode, Unstaged)
	}
	if !strings.Contains(d.Text, "+x = 1/0") {
		t.Errorf("diff missing change:\n%s", d.Text)
	}
	if strings.Contains(d.Text, "TOKEN") {
		t.Error("excluded file leaked into diff")
	}
	if strings.Contains(d.Text, "staged.py") {
		t.Error("staged file should not appear in unstaged diff")
	}
	if len(d.Files) != 1 || d.Files[0] != "main.py" {
		t.Errorf("Files = %v, want [main.py]", d.Files)
	}
}

func TestCollect_Staged(t *testing.T) {
	dir := setupTestRepo(t)

	d, err := Collect(context.Background(), "staged", Options{Dir: dir})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if d.Mode != Staged {
		t.Errorf("Mode = %q, want %q", d.Mode, Staged)
	}
	if len(d.Files) != 1 || d.Files[0] != "staged.py" {
		t.Errorf("Files = %v, want [staged.py]", d.Files)
	}
}

func TestCollect_Truncates(t *testing.T) {
	dir := setupTestRepo(t)

	d, err := Collect(context.Background(), "", Options{Dir: dir, MaxBytes: 20})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if !d.Truncated || !strings.HasSuffix(d.Text, truncatedNote) {
		t.Errorf("expected truncated diff, got %q", d.Text)
	}
}

func TestCollect_BadRange(t *testing.T) {
	dir := setupTestRepo(t)

	_, err := Collect(context.Background(), "nope..missing", Options{Dir: dir})
	if err == nil {
		t.Error("expected error for unknown revisions")
	}
}

func TestCollect_RejectsOptionLikeRange(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.patch")

	for _, spec := range []string{"--output=" + out, "-p", "--no-index"} {
		_, err := Collect(context.Background(), spec, Options{Dir: t.TempDir()})
		if err == nil {
			t.Errorf("Collect(%q) expected error", spec)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("git wrote %s; option-like range reached git", out)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	text := "+ 日本語のコメント\n"

	for max := 1; max < len(text); max++ {
		got, cut := truncate(text, max)
		if !cut {
			t.Fatalf("truncate(%d) did not report a cut", max)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%d) = %q, not valid UTF-8", max, got)
		}
		if !strings.HasSuffix(got, truncatedNote) {
			t.Errorf("truncate(%d) missing note", max)
		}
		if body := strings.TrimSuffix(got, truncatedNote); len(body) > max {
			t.Errorf("truncate(%d) kept %d bytes", max, len(body))
		}
	}
}

func TestTruncate_NoLimit(t *testing.T) {
	for _, max := range []int{0, 100} {
		got, cut := truncate("short", max)
		if cut || got != "short" {
			t.Errorf("truncate(%d) = %q, %v", max, got, cut)
		}
	}
}
