package price

import (
	"github.com/smallbiznis/salora/internal/price/repository"
	"github.com/smallbiznis/salora/internal/price/service"
	"go.uber.org/fx"
)

var Module = fx.Module("price.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewSaleOps),
	fx.Provide(service.New),
)
