package diffs

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewStore,
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
