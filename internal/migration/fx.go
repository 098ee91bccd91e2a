package migration

import (
	"github.com/smallbiznis/salora/internal/config"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	productdomain "github.com/smallbiznis/salora/internal/product/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	"github.com/smallbiznis/salora/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned migrations target postgres; sqlite and mysql
			// development databases build their schema from the models.
			if err := conn.AutoMigrate(
				&productdomain.Product{},
				&productdomain.Variant{},
				&pricedomain.Price{},
				&salepricedomain.SalePrice{},
			); err != nil {
				return err
			}
		}

		if cfg.BootstrapDemoCatalog {
			return seed.EnsureDemoCatalog(conn, cfg.DefaultCurrency)
		}
		return nil
	}),
)
