package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/iconsite/internal/assets"
	"git.home.luguber.info/inful/iconsite/internal/catalog"
	"git.home.luguber.info/inful/iconsite/internal/config"
	"git.home.luguber.info/inful/iconsite/internal/logfields"
	"git.home.luguber.info/inful/iconsite/internal/metrics"
	"git.home.luguber.info/inful/iconsite/internal/observability"
	"git.home.luguber.info/inful/iconsite/internal/render"
)

// Service executes build passes for one configuration. A Service is not safe
// for concurrent Run calls; callers serialize builds.
type Service struct {
	cfg      *config.Config
	recorder metrics.Recorder
	stdout   io.Writer
	now      func() time.Time
}

// NewService creates a Service for cfg with metrics disabled and the
// completion line written to stdout.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		stdout:   os.Stdout,
		now:      time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithStdout redirects the human-readable completion line.
func (s *Service) WithStdout(w io.Writer) *Service {
	s.stdout = w
	return s
}

// state carries what earlier stages produced for later ones.
type state struct {
	cfg       *config.Config
	report    *Report
	pipeline  *assets.Pipeline
	renderer  *render.Renderer
	icons     []catalog.Icon
	templates *render.TemplateSet
}

// Run executes one complete build pass. The returned report is never nil.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	buildID := uuid.NewString()
	ctx = observability.WithBuildID(ctx, buildID)
	report := newReport(buildID, s.now())

	st := &state{
		cfg:      s.cfg,
		report:   report,
		pipeline: assets.NewPipeline(s.cfg.SourceDir(), s.cfg.OutputDir(), s.cfg.Assets.MinifyJS),
		renderer: &render.Renderer{
			SourceDir: s.cfg.SourceDir(),
			OutputDir: s.cfg.OutputDir(),
			Workers:   s.cfg.Build.RenderWorkers,
		},
	}

	observability.InfoContext(ctx, "Build started", logfields.Output(s.cfg.OutputDir()))
	err := runStages(ctx, st, pipelineStages(), s.recorder)

	outcome := metrics.BuildOutcomeSuccess
	if err != nil {
		outcome = metrics.BuildOutcomeFailed
		var se *StageError
		if stderrors.As(err, &se) && se.Kind == StageErrorCanceled {
			outcome = metrics.BuildOutcomeCanceled
		}
	}
	report.finish(outcome, s.now())
	s.recorder.ObserveBuildDuration(report.Duration)
	s.recorder.IncBuildOutcome(outcome)

	if err != nil {
		observability.ErrorContext(ctx, "Build failed",
			slog.String("outcome", string(outcome)),
			logfields.Duration(report.Duration),
			logfields.Error(err))
		return report, err
	}

	s.recorder.SetIconCount(report.Icons)
	observability.InfoContext(ctx, "Build completed",
		logfields.IconCount(report.Icons),
		logfields.Duration(report.Duration))
	if s.stdout != nil {
		_, _ = fmt.Fprintln(s.stdout, "Built site...")
	}
	return report, nil
}

func pipelineStages() []namedStage {
	return []namedStage{
		{StageCleanOutput, stageCleanOutput},
		{StageCopyAssets, stageCopyAssets},
		{StageBundleCSS, stageBundleCSS},
		{StageBundleJS, stageBundleJS},
		{StageLoadCatalog, stageLoadCatalog},
		{StageLoadTemplates, stageLoadTemplates},
		{StageRenderIcons, stageRenderIcons},
		{StageRenderHomepage, stageRenderHomepage},
		{StageRenderStatic, stageRenderStatic},
	}
}
