// Package model defines shared data structures.
package model

import "time"

// Config defines page and generator settings resolved from flags and the config file.
type Config struct {
	ContentPath    string
	Caption        string
	Rain           bool
	ColumnWidth    int
	Endpoint       string
	APIKey         string
	Timeout        time.Duration
	HistoryEnabled bool
	LogFile        string
}

// Section is one content panel of the main view.
type Section struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Refiner bool   `yaml:"refiner"`
}

// Outcome classifies how a refinement request ended.
type Outcome string

const (
	OutcomeRefined   Outcome = "refined"
	OutcomeMalformed Outcome = "malformed"
	OutcomeTransport Outcome = "transport"
)

// Refinement records one finished bio refinement request.
type Refinement struct {
	ID         int64
	CreatedAt  time.Time
	Draft      string
	Result     string
	Outcome    Outcome
	DurationMs int64
}
