package auth

import (
	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/config"
)

// Module provides the password hasher, token strategy and operator gate.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newOperatorGate),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.AuthSecret, Options{})
}

func newOperatorGate(p strategyParams) *OperatorGate {
	return NewOperatorGate(p.Config.AdminSecret)
}
