package versions

import (
	"go.uber.org/fx"

	"github.com/schemata-hq/schemata-server/domain/branches"
)

var Module = fx.Options(
	fx.Provide(
		NewStore,
		NewService,
		NewHandler,
		fx.Annotate(
			func(s *Service) *Service { return s },
			fx.As(new(branches.VersionSeeder)),
		),
	),
	fx.Invoke(RegisterRoutes),
)
