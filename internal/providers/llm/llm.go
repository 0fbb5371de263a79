package llm

import "context"

// MatchCandidate is the slice of a ranked candidate the judge sees.
type MatchCandidate struct {
	Label   string
	Score   *float64
	Summary string
}

// Judge produces a qualitative justification for a ranked candidate
// list. It is advisory only: callers must treat every failure as "no
// justification available" and never block the numeric ranking on it.
type Judge interface {
	Justify(ctx context.Context, subject string, candidates []MatchCandidate) (string, error)
	Close() error
}
