package app

import (
	"os"
	"os/signal"
	"syscall"

	"waste-auction-api/internal/controller"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/service"
	"waste-auction-api/pkg/http_server"
	"waste-auction-api/pkg/logger"
	"waste-auction-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

func runMigrations(log *logger.Logger, postgresDB *postgres.Postgres, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func Run() {
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	dbConnEnv := os.Getenv("POSTGRES_CONN")
	databaseEnv := os.Getenv("POSTGRES_DATABASE")

	log.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(dbConnEnv)
	if err != nil {
		log.Fatalw("Error occurred while connecting to db", "error", err)
	}
	defer postgresDB.Close()

	if err := postgresDB.Database.Ping(); err != nil {
		log.Fatalw("Database is not reachable", "error", err)
	}

	log.Info("Running migrations...")
	runMigrations(log, postgresDB, databaseEnv)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories)
	handler := echo.New()

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services)

	log.Info("Starting server...")
	httpServer := http_server.New(handler, serverAddressEnv)

	log.Info("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Infow("Got signal", "signal", s.String())
	case err = <-httpServer.Notify():
		log.Fatalw("Server notify error", "error", err)
	}

	log.Info("Shutting down...")
	if err = httpServer.Shutdown(); err != nil {
		log.Fatalw("Shutdown error", "error", err)
	}
	log.Info("Successful shutdown")
}
