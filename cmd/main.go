package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	_ "amp_scheduler/docs"
	"amp_scheduler/internal/handlers"
	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/repository"
	"amp_scheduler/internal/repository/db"
	"amp_scheduler/internal/server"
	"amp_scheduler/internal/service"
)

const (
	defaultTick     = 1 * time.Second
	defaultSelfTest = 10 * time.Second
)

// @title        Amp Scheduler API
// @version      1.0
// @description  Supplementary JSON API of the amplifier scheduler device.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB; an unusable store is fatal, the device must not run without
	// reliable persistence
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// open hardware (real pins and buses only in gpio mode)
	devs, err := hardware.Open(hardwareConfig())
	if err != nil {
		log.Fatalw("failed to open hardware", "err", err)
	}
	defer func() {
		if cerr := devs.Close(); cerr != nil {
			log.Errorw("failed to close hardware", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, devs, serviceOptions(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// one-shot startup self-test: blocks everything, including the HTTP
	// server, for its whole duration
	services.Alarm.SelfTest(ctx)

	// start the evaluator loop
	go services.Alarm.Run(ctx, tickInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "amp.db")
		dbPath = "amp.db"
	}
	return db.InitDB(dbPath)
}

func hardwareConfig() hardware.Config {
	return hardware.Config{
		Mode:         viper.GetString("hardware.mode"),
		AmpPin:       viper.GetString("hardware.amp_pin"),
		LampGreenPin: viper.GetString("hardware.lamp_green_pin"),
		LampRedPin:   viper.GetString("hardware.lamp_red_pin"),
		I2CBus:       viper.GetString("hardware.i2c_bus"),
		PlayerDevice: viper.GetString("hardware.player_device"),
	}
}

func serviceOptions() service.Options {
	selfTest := viper.GetDuration("alarm.self_test")
	if !viper.IsSet("alarm.self_test") {
		selfTest = defaultSelfTest
	}
	return service.Options{
		SelfTestDuration: selfTest,
		Track:            viper.GetInt("alarm.track"),
		SigningKey:       viper.GetString("auth.signing_key"),
	}
}

func tickInterval() time.Duration {
	if tick := viper.GetDuration("alarm.tick"); tick > 0 {
		return tick
	}
	return defaultTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
