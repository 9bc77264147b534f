// Package gitbranch implements domain.BranchCreator using go-git.
package gitbranch

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Adapter creates the isolated branch a batch runs on.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) IsRepo(projectPath string) bool {
	_, err := git.PlainOpen(projectPath)
	return err == nil
}

// CreateIsolatedBranch creates a branch at the current HEAD and checks it
// out. Any failure here must abort the batch before files are touched.
func (a *Adapter) CreateIsolatedBranch(projectPath, name string) error {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	ref := plumbing.NewBranchReferenceName(name)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(ref, head.Hash())); err != nil {
		return fmt.Errorf("creating branch %s: %w", name, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: ref}); err != nil {
		return fmt.Errorf("checking out %s: %w", name, err)
	}
	return nil
}
