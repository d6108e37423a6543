package di

import (
	"go.uber.org/fx"

	"github.com/chowline/chowline/internal/adapter/rabbit"
	"github.com/chowline/chowline/internal/app"
	"github.com/chowline/chowline/internal/config"
	"github.com/chowline/chowline/internal/logger"
	"github.com/chowline/chowline/internal/pkg/auth"
	"github.com/chowline/chowline/internal/server/http/handlers"
	"github.com/chowline/chowline/internal/server/http/router"
	"github.com/chowline/chowline/internal/storage/postgres"
	"github.com/chowline/chowline/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		rabbit.Module,
		usecase.Module,
		fx.Provide(
			func(p *rabbit.Publisher) usecase.EventPublisher { return p },
			func(f *app.OrderingFacade) handlers.PlatformFacade { return f },
			func(s *postgres.Storage) router.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
