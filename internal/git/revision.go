// Package git reads version control state of a project directory.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Revision is the commit a work tree is checked out at.
type Revision struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch string
}

// String renders the short commit.
func (r Revision) String() string {
	if len(r.Commit) > 12 {
		return r.Commit[:12]
	}
	return r.Commit
}

// Repository is the repository a project lives in. Reading HEAD only touches
// refs, so it is cheap enough to do before every build.
type Repository struct {
	repo *git.Repository
}

// Open finds the repository containing dir. ok is false when dir is not
// inside a repository.
func Open(dir string) (r *Repository, ok bool, err error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open repository: %w", err)
	}
	return &Repository{repo: repo}, true, nil
}

// Head reports the checked out commit. ok is false before the first commit.
func (r *Repository) Head() (rev Revision, ok bool, err error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, false, nil
		}
		return Revision{}, false, fmt.Errorf("resolve HEAD: %w", err)
	}
	rev.Commit = ref.Hash().String()
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, true, nil
}
