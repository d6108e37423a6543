package logger

import "go.uber.org/fx"

// Module supplies the process-wide slog logger.
var Module = fx.Provide(New)
