// Package vcs reads and updates the git repository the tool runs in.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotGitRepo indicates the directory is not inside a git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// Repo is a git working tree.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing path.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &Repo{repo: r, root: root}, nil
}

// Root is the working tree's top-level directory.
func (r *Repo) Root() string {
	return r.root
}

// IsMainBranch reports whether branch is a default branch.
func IsMainBranch(branch string) bool {
	return branch == "main" || branch == "master"
}

// CurrentBranch returns the checked out branch name, including an unborn
// branch before the first commit, or "" when HEAD is detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	if !head.Target().IsBranch() {
		return "", nil
	}
	return head.Target().Short(), nil
}

// HeadShort returns the abbreviated HEAD commit hash, or "root" before the
// first commit.
func (r *Repo) HeadShort() (string, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "root", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String()[:7], nil
}

// StagedFiles returns the paths with staged changes, sorted.
func (r *Repo) StagedFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// StagedDiff returns `git diff --cached` for the whole tree minus the
// excluded pathspec globs.
func (r *Repo) StagedDiff(ctx context.Context, excludes []string) (string, error) {
	args := []string{"diff", "--cached", "--", "."}
	for _, pattern := range excludes {
		args = append(args, ":(exclude)"+pattern)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git diff failed: %w (output: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// StageAndCommit stages every change (including deletions) under paths and
// commits it with the repository's configured author.
func (r *Repo) StageAndCommit(paths []string, message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}

	prefixes := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return "", err
		}
		prefixes = append(prefixes, rel)
	}

	var changed []string
	for path, st := range status {
		if st.Worktree == git.Unmodified {
			continue
		}
		if underAny(path, prefixes) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)

	for _, path := range changed {
		if _, err := wt.Add(path); err != nil {
			return "", fmt.Errorf("stage %s: %w", path, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String(), nil
}

// relative converts p (absolute, or relative to the working directory) to a
// slash-separated path relative to the repository root.
func (r *Repo) relative(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository", p)
	}
	return filepath.ToSlash(rel), nil
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "." || path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
