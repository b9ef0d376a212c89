package versions

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides a Source and a *Loader built from a Config and loads the
// configured version when the application starts.
//
// Usage:
//
//	app := fx.New(
//	    versions.FXModule,
//	    fx.Supply(versions.Config{Dir: "./avsc"}),
//	    fx.Provide(zap.NewProduction),
//	)
var FXModule = fx.Module("versions",
	fx.Provide(
		NewSourceFromConfig,
		NewLoaderWithDI,
	),
	fx.Invoke(RegisterLoaderLifecycle),
)

// NewSourceFromConfig builds the Source named by cfg.
func NewSourceFromConfig(cfg Config) (Source, error) { return cfg.Source() }

// LoaderParams groups the dependencies of NewLoaderWithDI.
type LoaderParams struct {
	fx.In

	Config Config
	Source Source
	Logger *zap.Logger `optional:"true"`
}

// NewLoaderWithDI creates a Loader from injected dependencies.
func NewLoaderWithDI(p LoaderParams) *Loader {
	return NewLoader(p.Source, p.Logger, p.Config.ParseOpt())
}

// LifecycleParams groups the dependencies of RegisterLoaderLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Loader    *Loader
}

// RegisterLoaderLifecycle loads the configured version (or the latest) on
// start. A failed initial load aborts startup.
func RegisterLoaderLifecycle(p LifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Config.Version != "" {
				_, err := p.Loader.Load(ctx, p.Config.Version)
				return err
			}
			_, err := p.Loader.LoadLatest(ctx)
			return err
		},
		OnStop: func(ctx context.Context) error {
			_ = p.Loader.logger.Sync()
			return nil
		},
	})
}
