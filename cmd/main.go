package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "campanario/docs"
	"campanario/internal/connection"
	"campanario/internal/discovery"
	"campanario/internal/handlers"
	"campanario/internal/homekit"
	"campanario/internal/logger"
	"campanario/internal/metrics"
	"campanario/internal/protocol"
	"campanario/internal/repository"
	"campanario/internal/repository/db"
	"campanario/internal/router"
	"campanario/internal/server"
	"campanario/internal/service"

	"github.com/gorilla/websocket"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// @title        Campanario gateway API
// @version      1.0
// @description  REST and WebSocket gateway for the bell tower controller.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfgErr := loadConfig()

	// init logger
	log := logger.GetWithEncoding(viper.GetString("log.level"), viper.GetString("log.encoding"))
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(database)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// device link
	conn := connection.New(connection.Options{
		Endpoint:       deviceEndpoint(),
		ReconnectDelay: viper.GetDuration("device.reconnect_delay"),
		Dialer:         newDialer(log),
		Log:            log.Named("connection"),
	})

	// controllers and their event consumers
	hub := handlers.NewHub(log.Named("ws"))
	var bridge *homekit.Bridge
	if viper.GetBool("homekit.enabled") {
		bridge = homekit.New(homekit.Config{
			Name:        viper.GetString("homekit.name"),
			Pin:         viper.GetString("homekit.pin"),
			StoragePath: viper.GetString("homekit.storage_path"),
			Port:        viper.GetString("homekit.port"),
		}, log.Named("homekit"))
	}
	journal := service.NewEventLogService(repos.EventRepo, log.Named("journal"))
	core := service.NewCore(service.Deps{
		Sender:      conn,
		Publisher:   service.Fanout(hub, metrics.Publisher(), publisherOf(bridge)),
		Preferences: repos.Preferences,
		Journal:     journal,
		Encoder:     protocol.NewEncoder(viper.GetBool("protocol.request_ids")),
		Log:         log,
	})

	frames := router.New(log.Named("router"))
	frames.SetObserver(metrics.ObserveFrame)
	core.Routes(frames)

	conn.OnOpen(core.OnConnected)
	conn.OnClose(func(err error) {
		metrics.Disconnected()
		core.OnDisconnected(err)
	})
	conn.OnMessage(frames.HandleFrame)

	services := service.NewService(core, repos, journal, service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
		ConfigTTL:  viper.GetDuration("auth.config_ttl"),
	})
	apiHandler := handlers.NewHandler(services, log.Named("http")).
		WithHub(hub).
		WithMetrics(metrics.Handler(metrics.NewRegistry()))

	go func() {
		if err := conn.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("connection manager stopped", "err", err)
		}
	}()

	if bridge != nil {
		bridge.Bind(core.Heating, core.Bells)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Errorw("homekit stopped", "err", err)
			}
		}()
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("log.encoding", logger.ConsoleEncoding)
	viper.SetDefault("db.path", "campanario.db")
	viper.SetDefault("device.host", "campanario.local")
	viper.SetDefault("device.port", 0)
	viper.SetDefault("device.reconnect_delay", connection.DefaultReconnectDelay)
	viper.SetDefault("auth.token_ttl", 12*time.Hour)
	viper.SetDefault("auth.config_ttl", 10*time.Minute)
	viper.SetDefault("discovery.enabled", true)
	viper.SetDefault("discovery.timeout", discovery.DefaultTimeout)
	viper.SetDefault("homekit.storage_path", "homekit")

	viper.SetEnvPrefix("campanario")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

func deviceEndpoint() string {
	return connection.Endpoint(
		viper.GetString("device.host"),
		viper.GetInt("device.port"),
		viper.GetBool("device.secure"),
	)
}

// newDialer resolves .local device names over mDNS when discovery is enabled.
func newDialer(log *logger.Logger) *websocket.Dialer {
	d := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	host := viper.GetString("device.host")
	if viper.GetBool("discovery.enabled") && discovery.IsLocal(host) {
		resolver := discovery.NewResolver(viper.GetDuration("discovery.timeout"), log.Named("mdns"))
		d.NetDialContext = resolver.DialContext
		log.Infow("mdns discovery enabled", "host", host)
	}
	return d
}

func publisherOf(b *homekit.Bridge) service.Publisher {
	if b == nil {
		return nil
	}
	return b
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("http server listening", "port", port)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the device link, countdowns and homekit
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
