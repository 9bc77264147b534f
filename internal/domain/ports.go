package domain

import (
	"context"
	"os"
)

// Detector scans content and returns the issues it finds. A failed
// invocation returns an error distinguishable from a clean run with zero
// issues (see ErrVerificationInconclusive).
type Detector interface {
	// Name identifies the detector in issue provenance and logs.
	Name() string
	// ScanContent scans raw content using rules selected by the file
	// extension (with leading dot, e.g. ".go").
	ScanContent(ctx context.Context, content, extension string) ([]Issue, error)
	// ScanFile scans a file on disk.
	ScanFile(ctx context.Context, path string) ([]Issue, error)
}

// Oracle is the external code-generation backend. It may fail or return
// empty text; callers own retry policy.
type Oracle interface {
	Generate(ctx context.Context, prompt, modelHint string) (string, error)
}

// ProjectScanner walks a project tree and returns candidate file paths,
// relative to root, after ignore filtering.
type ProjectScanner interface {
	Scan(root string) ([]string, error)
}

// BranchCreator creates the isolated version-control branch at batch start.
// Failure must abort the batch before any file mutation.
type BranchCreator interface {
	CreateIsolatedBranch(projectPath, name string) error
	IsRepo(projectPath string) bool
}

// RunLocker serializes batch runs over one project.
type RunLocker interface {
	// TryLock acquires the run lock without blocking; false means another
	// batch holds it.
	TryLock(projectPath string) (bool, error)
	Unlock() error
}

// FileWriter persists accepted candidates. Implementations must replace
// content atomically so a crash never leaves a half-written file.
type FileWriter interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// ConfigLoader reads the project RunConfig.
type ConfigLoader interface {
	Load(projectPath string) (RunConfig, error)
}
