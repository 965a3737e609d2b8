package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/iconsite/internal/build"
	"git.home.luguber.info/inful/iconsite/internal/observability"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	MinifyJS bool `name:"minify-js" help:"Minify scripts while bundling (overrides assets.minify_js)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.MinifyJS {
		cfg.Assets.MinifyJS = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, err = build.NewService(cfg).Run(observability.WithTrigger(ctx, "manual"))
	return err
}
