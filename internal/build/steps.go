package build

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/iconsite/internal/catalog"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/logfields"
	"git.home.luguber.info/inful/iconsite/internal/observability"
	"git.home.luguber.info/inful/iconsite/internal/render"
)

// stageCleanOutput removes everything inside the output directory, keeping the
// directory itself, or creates it when missing.
func stageCleanOutput(ctx context.Context, st *state) error {
	dir := st.cfg.OutputDir()
	entries, err := os.ReadDir(dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileSystemError("create output directory").WithCause(err).WithContext("path", dir).Build()
		}
		return nil
	}
	if err != nil {
		return errors.FileSystemError("read output directory").WithCause(err).WithContext("path", dir).Build()
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return errors.FileSystemError("clear output directory").WithCause(err).WithContext("path", p).Build()
		}
	}
	observability.DebugContext(ctx, "Output cleared", logfields.Output(dir), slog.Int("removed", len(entries)))
	return nil
}

func stageCopyAssets(_ context.Context, st *state) error {
	return st.pipeline.CopyAssets(st.cfg.Assets.Images...)
}

func stageBundleCSS(ctx context.Context, st *state) error {
	path, err := st.pipeline.BundleCSS(st.cfg.Assets.CSS...)
	if err != nil {
		return err
	}
	st.report.CSSBundle = path
	observability.DebugContext(ctx, "Stylesheet bundle written", logfields.Path(path))
	return nil
}

func stageBundleJS(ctx context.Context, st *state) error {
	path, err := st.pipeline.BundleJS(st.cfg.Assets.JS...)
	if err != nil {
		return err
	}
	st.report.JSBundle = path
	observability.DebugContext(ctx, "Script bundle written", logfields.Path(path))
	return nil
}

func stageLoadCatalog(ctx context.Context, st *state) error {
	icons, err := catalog.Load(st.cfg.MetadataPath(), st.cfg.IconDir())
	if err != nil {
		return err
	}
	st.icons = icons
	observability.InfoContext(ctx, "Catalog loaded", logfields.IconCount(len(icons)))
	return nil
}

func stageLoadTemplates(_ context.Context, st *state) error {
	set, err := render.LoadTemplates(st.cfg.SourceDir(), render.TemplateFiles{
		Icon:     st.cfg.Templates.Icon,
		Homepage: st.cfg.Templates.Homepage,
		Partials: st.cfg.Templates.Partials,
	})
	if err != nil {
		return err
	}
	st.templates = set
	return nil
}

func stageRenderIcons(ctx context.Context, st *state) error {
	if err := st.renderer.RenderIconPages(ctx, st.templates.Icon, st.templates.Partials, st.icons); err != nil {
		return err
	}
	st.report.Icons = len(st.icons)
	return nil
}

func stageRenderHomepage(_ context.Context, st *state) error {
	return st.renderer.RenderHomepage(st.templates.Homepage, st.templates.Partials, st.icons)
}

func stageRenderStatic(_ context.Context, st *state) error {
	return st.renderer.RenderStaticPages(st.cfg.StaticPages...)
}
