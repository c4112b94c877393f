package types

import (
	"time"
)

// OutcomeKind classifies what happened to a single file during a run
type OutcomeKind string

const (
	OutcomeMoved    OutcomeKind = "moved"    // File renamed into its destination
	OutcomeConflict OutcomeKind = "conflict" // Target occupied, file left in place
	OutcomeFailed   OutcomeKind = "failed"   // Directory creation or move failed
	OutcomeIgnored  OutcomeKind = "ignored"  // Name matched an ignore pattern
	OutcomePlanned  OutcomeKind = "planned"  // Dry run, would be moved
)

// Outcome is the result of processing one file
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	File   string      `json:"file"`
	Source string      `json:"source"`
	Target string      `json:"target,omitempty"`
	Label  string      `json:"label,omitempty"`

	// Rule describes the rule that selected Label, e.g. "keyword:invoice"
	Rule string `json:"rule,omitempty"`

	Size int64 `json:"size"`

	// Renamed is set when the conflict policy moved the file under a new name
	Renamed bool `json:"renamed,omitempty"`

	// Error carries the cause for failed outcomes
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// Summary aggregates the outcomes of one organize run
type Summary struct {
	RunID      string    `json:"run_id"`
	Root       string    `json:"root"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Moved     int `json:"moved"`
	Conflicts int `json:"conflicts"`
	Failed    int `json:"failed"`
	Ignored   int `json:"ignored"`
	Planned   int `json:"planned"`

	BytesMoved int64 `json:"bytes_moved"`

	Outcomes []Outcome `json:"outcomes"`
}

// Add records an outcome and updates the counters
func (s *Summary) Add(o Outcome) {
	switch o.Kind {
	case OutcomeMoved:
		s.Moved++
		s.BytesMoved += o.Size
	case OutcomeConflict:
		s.Conflicts++
	case OutcomeFailed:
		s.Failed++
	case OutcomeIgnored:
		s.Ignored++
	case OutcomePlanned:
		s.Planned++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of files processed
func (s *Summary) Total() int {
	return len(s.Outcomes)
}

// HasFailures reports whether any file failed to move
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// Duration returns how long the run took
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// ByKind returns the outcomes of the given kind in processing order
func (s *Summary) ByKind(kind OutcomeKind) []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}
