package domain

// State names for the per-file remediation state machine.
type State string

const (
	StateInit     State = "init"
	StateProposed State = "proposed"
	StateApplied  State = "applied"
	StateVerified State = "verified"
	StateAccepted State = "accepted"
	StateRetrying State = "retrying"
	StateReverted State = "reverted"
)

// Outcome is the terminal result for one file.
type Outcome string

const (
	OutcomeFixed    Outcome = "fixed"
	OutcomeReverted Outcome = "reverted"
	OutcomeSkipped  Outcome = "skipped"
)

// FileResult summarizes the remediation of a single file.
type FileResult struct {
	Path            string `json:"path"`
	Outcome         Outcome `json:"outcome"`
	Attempts        int    `json:"attempts"`
	InitialIssues   int    `json:"initial_issues"`
	RemainingIssues int    `json:"remaining_issues"`
	FailureNote     string `json:"failure_note,omitempty"`
	LinesAdded      int    `json:"lines_added,omitempty"`
	LinesRemoved    int    `json:"lines_removed,omitempty"`
	Origin          CandidateOrigin `json:"origin,omitempty"`
}

// BatchReport is the end-of-run summary. The batch always completes; per-file
// failures surface here rather than as a fatal exit.
type BatchReport struct {
	Branch      string       `json:"branch"`
	TotalIssues int          `json:"total_issues"`
	TotalFiles  int          `json:"total_files"`
	Fixed       int          `json:"fixed"`
	Reverted    int          `json:"reverted"`
	Skipped     int          `json:"skipped"`
	Results     []FileResult `json:"results"`
}
