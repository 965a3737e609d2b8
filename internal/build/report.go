package build

import (
	"time"

	"git.home.luguber.info/inful/iconsite/internal/metrics"
)

// Report summarizes one build pass.
type Report struct {
	BuildID string
	Outcome metrics.BuildOutcomeLabel

	Start    time.Time
	End      time.Time
	Duration time.Duration

	// Icons is the number of icon pages written.
	Icons int
	// CSSBundle and JSBundle are the paths of the written bundles.
	CSSBundle string
	JSBundle  string

	// Stages lists the stages that ran, in order.
	Stages         []StageName
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
}

func newReport(buildID string, start time.Time) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *Report) recordStage(name StageName, res metrics.ResultLabel, d time.Duration) {
	r.Stages = append(r.Stages, name)
	r.StageDurations[name] = d
	r.StageResults[name] = res
}

func (r *Report) finish(outcome metrics.BuildOutcomeLabel, end time.Time) {
	r.Outcome = outcome
	r.End = end
	r.Duration = end.Sub(r.Start)
}
