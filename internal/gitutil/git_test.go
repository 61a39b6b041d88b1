package gitutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	r := New(t.TempDir())
	if err := r.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	// 커밋 테스트용 로컬 아이덴티티
	for _, kv := range [][2]string{
		{"user.email", "test@example.com"},
		{"user.name", "Test"},
		{"commit.gpgsign", "false"},
	} {
		if _, err := r.git("config", kv[0], kv[1]); err != nil {
			t.Fatalf("git config: %v", err)
		}
	}
	return r
}

func TestInit(t *testing.T) {
	r := gitRepo(t)

	if !r.IsRepo() {
		t.Error("Init should create a repository")
	}

	data, err := os.ReadFile(filepath.Join(r.Dir, ".gitignore"))
	if err != nil {
		t.Fatalf(".gitignore not written: %v", err)
	}
	if !strings.Contains(string(data), "*.pbix") {
		t.Errorf(".gitignore should exclude pbix binaries:\n%s", data)
	}

	// 재실행해도 에러 없이 통과
	if err := r.Init(); err != nil {
		t.Errorf("Init should be idempotent: %v", err)
	}
}

func TestInitKeepsExistingIgnore(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	r := New(t.TempDir())
	custom := "custom-entry\n"
	if err := os.WriteFile(filepath.Join(r.Dir, ".gitignore"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(r.Dir, ".gitignore"))
	if string(data) != custom {
		t.Errorf("Init should not clobber an existing .gitignore, got:\n%s", data)
	}
}

func TestCommitAll(t *testing.T) {
	r := gitRepo(t)

	if err := os.WriteFile(filepath.Join(r.Dir, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	committed, err := r.CommitAll("add docs")
	if err != nil {
		t.Fatalf("CommitAll failed: %v", err)
	}
	if !committed {
		t.Error("expected a commit for new files")
	}

	// Clean tree: no commit, no error.
	committed, err = r.CommitAll("nothing")
	if err != nil {
		t.Fatalf("CommitAll on clean tree failed: %v", err)
	}
	if committed {
		t.Error("expected no commit on a clean tree")
	}

	status, err := r.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != "" {
		t.Errorf("expected clean status, got %q", status)
	}
}

func TestBranches(t *testing.T) {
	r := gitRepo(t)

	if err := os.WriteFile(filepath.Join(r.Dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.CommitAll("initial"); err != nil {
		t.Fatalf("CommitAll failed: %v", err)
	}

	if err := r.CreateBranch("docs/update"); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}
	if got := r.CurrentBranch(); got != "docs/update" {
		t.Errorf("expected branch docs/update, got %q", got)
	}
}

func TestRemotes(t *testing.T) {
	r := gitRepo(t)

	if r.HasRemote("origin") {
		t.Error("fresh repo should have no origin")
	}
	if err := r.AddRemote("origin", "https://example.com/repo.git"); err != nil {
		t.Fatalf("AddRemote failed: %v", err)
	}
	if !r.HasRemote("origin") {
		t.Error("origin should exist after AddRemote")
	}

	// Same name again replaces the URL instead of failing.
	if err := r.AddRemote("origin", "https://example.com/other.git"); err != nil {
		t.Errorf("AddRemote should update an existing remote: %v", err)
	}
}

func TestIsRepoOutside(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := New(t.TempDir())
	if r.IsRepo() {
		t.Error("fresh temp dir should not be a repository")
	}
}
