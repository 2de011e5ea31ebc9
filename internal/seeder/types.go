package seeder

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingPrerequisite = errors.New("missing prerequisite data")
	ErrUnknownTargetKind   = errors.New("unknown target kind")
	ErrDanglingReference   = errors.New("reference to a missing row")
)

// Routine populates one table.
type Routine interface {
	Name() string
	Table() string
	Dependencies() []string // tables that must be populated first
	Seed(ctx context.Context, env *Env) error
}

// Placeholderer is implemented by routines able to produce minimal rows for
// their table when another routine needs them and the table is empty.
type Placeholderer interface {
	Placeholder(ctx context.Context, env *Env) error
}

type MissingPolicy string

const (
	MissingPlaceholder MissingPolicy = "placeholder"
	MissingSkip        MissingPolicy = "skip"
)

type SeedConfig struct {
	Only          []string       // Routine names to run; empty runs all
	Counts        map[string]int // Per-table row counts
	RandomSeed    int64
	OnMissing     MissingPolicy
	Truncate      bool // Clear selected tables before seeding
	Force         bool // Continue with the next routine on errors
	NoTransaction bool // Disable per-routine transaction wrapping
}

type Result struct {
	Name     string
	Table    string
	Created  int // rows inserted by first-or-create
	Existing int // rows first-or-create found already present
	Upserted int // rows written by update-or-create
	// rows written by other routines' placeholders on this routine's behalf
	Placeholders int
	Skipped      bool
	Err          error
	Duration     time.Duration
}

func (r Result) Written() int {
	return r.Created + r.Upserted
}

type Report struct {
	Results []Result
}

// Failed returns the results that ended in an error other than a skip.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil && !res.Skipped {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Get(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}
