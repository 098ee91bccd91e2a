package saleprice

import (
	"github.com/smallbiznis/salora/internal/saleprice/repository"
	"github.com/smallbiznis/salora/internal/saleprice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("saleprice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
