package domain

import "time"

// Outcome is the immutable per-document record inside a BatchReport.
type Outcome struct {
	SourcePath  string
	FinalPath   string
	Status      DocumentStatus
	Category    string
	Subcategory string
	Confidence  Confidence
	RawResponse string
	FailReason  string
	Error       string
	Duration    time.Duration
}

// BatchReport aggregates one run over an input directory. It holds exactly one
// outcome per enumerated input file and is never mutated after the run ends.
type BatchReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Aborted    bool
	AbortCause string
	Outcomes   []Outcome
}

func (r *BatchReport) CountByStatus(status DocumentStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r *BatchReport) CountByConfidence(c Confidence) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusMoved && o.Confidence == c {
			n++
		}
	}
	return n
}
