package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/config"
	"github.com/smallbiznis/salora/internal/logger"
	"github.com/smallbiznis/salora/internal/migration"
	"github.com/smallbiznis/salora/internal/server"
	"github.com/smallbiznis/salora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
