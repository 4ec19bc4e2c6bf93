// Package session holds the process-wide accumulation of findings and
// recommendations for one diagnostic run. A Session is an explicit object,
// created at run start and passed to each category step; nothing here is
// global, so independent sessions can coexist in tests.
package session

import (
	"github.com/khanhnv2901/apidiag/internal/classify"
	"github.com/khanhnv2901/apidiag/internal/probe"
	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

// Phase is the aggregator's lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseSummarized
	PhaseDone
)

// ProbeRecord preserves one probe outcome together with the category and
// probe that produced it, in append order.
type ProbeRecord struct {
	Category string
	Probe    string
	Outcome  probe.Outcome
}

// Summary is the computed verdict of a completed run.
type Summary struct {
	Errors   int
	Warnings int
	Infos    int
	// OK is true iff no Error-severity finding exists, independent of
	// Warning/Info counts.
	OK       bool
	ExitCode int
}

// Session is single-writer: categories execute sequentially and append in
// execution order, which is an observable contract of the output.
type Session struct {
	phase    Phase
	category string

	records         []ProbeRecord
	findings        []classify.Finding
	recommendations []string
	seenRecs        map[string]struct{}

	summary Summary
}

func New() *Session {
	return &Session{seenRecs: map[string]struct{}{}}
}

// StartCategory transitions NotStarted→Running on first use and marks the
// category subsequent appends belong to.
func (s *Session) StartCategory(name string) error {
	switch s.phase {
	case PhaseNotStarted:
		s.phase = PhaseRunning
	case PhaseRunning:
	default:
		return errs.ErrSessionFinalized
	}
	s.category = name
	return nil
}

// RecordOutcome appends a raw probe outcome for rendering.
func (s *Session) RecordOutcome(probeName string, o probe.Outcome) {
	s.records = append(s.records, ProbeRecord{
		Category: s.category,
		Probe:    probeName,
		Outcome:  o,
	})
}

// AddFindings appends findings in order.
func (s *Session) AddFindings(fs ...classify.Finding) {
	s.findings = append(s.findings, fs...)
}

// AddRecommendations appends remediation strings, suppressing exact
// duplicates already present in the session.
func (s *Session) AddRecommendations(recs ...string) {
	for _, r := range recs {
		if _, dup := s.seenRecs[r]; dup {
			continue
		}
		s.seenRecs[r] = struct{}{}
		s.recommendations = append(s.recommendations, r)
	}
}

// Summarize computes the overall verdict and transitions Running→Summarized.
// Any Error-severity finding makes the run a failure (exit 1).
func (s *Session) Summarize() (Summary, error) {
	if s.phase != PhaseRunning && s.phase != PhaseNotStarted {
		return Summary{}, errs.ErrSessionPhase
	}

	var sum Summary
	for _, f := range s.findings {
		switch f.Severity {
		case classify.SeverityError:
			sum.Errors++
		case classify.SeverityWarning:
			sum.Warnings++
		case classify.SeverityInfo:
			sum.Infos++
		}
	}
	sum.OK = sum.Errors == 0
	if !sum.OK {
		sum.ExitCode = 1
	}

	s.summary = sum
	s.phase = PhaseSummarized
	return sum, nil
}

// MarkDone transitions Summarized→Done after rendering.
func (s *Session) MarkDone() error {
	if s.phase != PhaseSummarized {
		return errs.ErrSessionPhase
	}
	s.phase = PhaseDone
	return nil
}

func (s *Session) Phase() Phase { return s.phase }

// Records returns probe records in append order.
func (s *Session) Records() []ProbeRecord { return s.records }

// Findings returns findings in category execution order.
func (s *Session) Findings() []classify.Finding { return s.findings }

// Recommendations returns deduplicated recommendations in append order.
func (s *Session) Recommendations() []string { return s.recommendations }
