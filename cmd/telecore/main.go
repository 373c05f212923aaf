// @title           TeleCore API
// @version         1.0
// @description     TeleCore Invoice Lifecycle API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/clock"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/events"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/migration"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/notification"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/order"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/pricing"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/scheduler"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/seed"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/server"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config, log *zap.Logger) error {
			if err := migration.RunMigrations(conn, log); err != nil {
				return err
			}
			if cfg.SeedDemoData && !cfg.IsProduction() {
				return seed.EnsureDemoData(conn, node)
			}
			return nil
		}),

		fx.Provide(events.NewOutbox),
		audit.Module,
		order.Module,
		pricing.Module,
		notification.Module,
		invoice.Module,
		scheduler.Module,
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
