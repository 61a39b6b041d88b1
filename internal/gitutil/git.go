// Package gitutil wraps the git CLI for project versioning. Commands run in
// the project directory; git itself must be on PATH.
package gitutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo runs git commands inside one project directory.
type Repo struct {
	Dir string
}

func New(dir string) *Repo {
	return &Repo{Dir: dir}
}

func (r *Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether the directory is inside a git work tree.
func (r *Repo) IsRepo() bool {
	out, err := r.git("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// 바이너리 원본과 캐시는 저장소에서 제외
const ignoreFile = `*.pbix
.pbnj/cache/
`

// Init initializes a repository and writes the default .gitignore. Calling
// it on an existing repository is a no-op apart from the ignore file.
func (r *Repo) Init() error {
	if !r.IsRepo() {
		if _, err := r.git("init"); err != nil {
			return err
		}
	}
	return writeIgnore(r.Dir)
}

// writeIgnore creates the default .gitignore unless one already exists.
func writeIgnore(dir string) error {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(ignoreFile), 0o644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return nil
}

// CommitAll stages everything and commits. Returns false without error when
// there is nothing to commit.
func (r *Repo) CommitAll(message string) (bool, error) {
	if _, err := r.git("add", "-A"); err != nil {
		return false, err
	}

	status, err := r.git("status", "--porcelain")
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}

	if _, err := r.git("commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentBranch returns the checked-out branch name, or "" on a detached
// head or an unborn branch.
func (r *Repo) CurrentBranch() string {
	out, err := r.git("branch", "--show-current")
	if err != nil {
		return ""
	}
	return out
}

// CreateBranch creates and checks out a branch.
func (r *Repo) CreateBranch(name string) error {
	_, err := r.git("checkout", "-b", name)
	return err
}

// HasRemote reports whether the named remote exists.
func (r *Repo) HasRemote(name string) bool {
	remotes, err := r.git("remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(remotes, "\n") {
		if line == name {
			return true
		}
	}
	return false
}

// AddRemote registers a remote, replacing an existing one of the same name.
func (r *Repo) AddRemote(name, url string) error {
	if r.HasRemote(name) {
		_, err := r.git("remote", "set-url", name, url)
		return err
	}
	_, err := r.git("remote", "add", name, url)
	return err
}

// Push pushes the current branch to the remote.
func (r *Repo) Push(remote string) error {
	branch := r.CurrentBranch()
	if branch == "" {
		return fmt.Errorf("cannot push: no branch checked out")
	}
	_, err := r.git("push", "-u", remote, branch)
	return err
}

// Status returns the porcelain status output ("" when clean).
func (r *Repo) Status() (string, error) {
	return r.git("status", "--porcelain")
}
