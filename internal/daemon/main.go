// Package daemon assembles the running service: database, migrations, seed
// data, session storage, media store and the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/dsn"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/media"
	"github.com/materialdesk/materialdesk/internal/web"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Material{},
		&models.MaterialCategory{},
		&models.MaterialUser{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db, media.New(cfg.Media)),
	}
}

func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Driver {
	case "postgres":
		return gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// sessionStorage picks the session backend matching the database driver.
// The sqlite driver keeps sessions in process memory; it only serves single
// instance deployments anyway.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.Driver {
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case "sqlite":
		return session.NewMemoryStorage()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
