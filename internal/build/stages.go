package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	dberrors "git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/metrics"
	"git.home.luguber.info/inful/iconsite/internal/observability"
)

// StageName identifies a build stage.
type StageName string

const (
	StageCleanOutput    StageName = "clean_output"
	StageCopyAssets     StageName = "copy_assets"
	StageBundleCSS      StageName = "bundle_css"
	StageBundleJS       StageName = "bundle_js"
	StageLoadCatalog    StageName = "load_catalog"
	StageLoadTemplates  StageName = "load_templates"
	StageRenderIcons    StageName = "render_icons"
	StageRenderHomepage StageName = "render_homepage"
	StageRenderStatic   StageName = "render_static"
)

// Stage is a discrete unit of work in a build pass.
type Stage func(ctx context.Context, st *state) error

type namedStage struct {
	name StageName
	fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context canceled before the stage started.
)

// StageError is a structured error carrying the failing stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// runStages executes stages in order, recording timing and stopping on the
// first error. A stage that has started is not interrupted by cancellation.
// Unclassified stage errors are reported as build errors.
func runStages(ctx context.Context, st *state, stages []namedStage, recorder metrics.Recorder) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: stage.name, Err: err}
			st.report.recordStage(stage.name, metrics.ResultCanceled, 0)
			recorder.IncStageResult(string(stage.name), metrics.ResultCanceled)
			return se
		}

		stageCtx := observability.WithStage(context.WithoutCancel(ctx), string(stage.name))
		observability.DebugContext(stageCtx, "Stage started")
		t0 := time.Now()
		err := stage.fn(stageCtx, st)
		dur := time.Since(t0)
		recorder.ObserveStageDuration(string(stage.name), dur)

		if err != nil {
			if !dberrors.IsClassified(err) {
				err = dberrors.BuildError("stage failed").WithCause(err).WithContext("stage", string(stage.name)).Build()
			}
			var se *StageError
			if !errors.As(err, &se) {
				se = &StageError{Kind: StageErrorFatal, Stage: stage.name, Err: err}
			}
			st.report.recordStage(stage.name, metrics.ResultFatal, dur)
			recorder.IncStageResult(string(stage.name), metrics.ResultFatal)
			return se
		}
		st.report.recordStage(stage.name, metrics.ResultSuccess, dur)
		recorder.IncStageResult(string(stage.name), metrics.ResultSuccess)
	}
	return nil
}
