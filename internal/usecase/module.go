package usecase

import "go.uber.org/fx"

// Module provides the platform use cases to the fx graph.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCatalogUseCase,
	NewOrderUseCase,
	NewDeliveryUseCase,
	NewNotificationUseCase,
)
