package main

import (
	"context"

	"go.uber.org/fx"
)

// run drives the fx application from start to stop. It returns the first
// start or stop error so main owns the exit code.
func run(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	return app.Stop(context.Background())
}
