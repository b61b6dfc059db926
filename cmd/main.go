package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "smart_home_catalog/docs"
	"smart_home_catalog/internal/cache"
	"smart_home_catalog/internal/catalog"
	"smart_home_catalog/internal/handlers"
	"smart_home_catalog/internal/ingest"
	"smart_home_catalog/internal/logger"
	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/repository"
	"smart_home_catalog/internal/repository/db"
	"smart_home_catalog/internal/server"
	"smart_home_catalog/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfgErr := loadConfig()

	log := logger.Init(logger.Config{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	})
	defer func() { _ = log.Sync() }()

	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := repository.NewRepository(sqlDB)
	seedCatalog(ctx, repos, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	rdb, readingCache := openCache(ctx, m, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	services := service.NewService(repos, readingCache, service.Options{
		GridMeterName:    viper.GetString("power.grid_meter_name"),
		ConsumptionModel: viper.GetString("power.consumption_model"),
		MaxPeakWindows:   viper.GetInt("power.max_windows"),
		SigningKey:       viper.GetString("auth.signing_key"),
		TokenTTL:         viper.GetDuration("auth.token_ttl"),
	})

	sub := startIngest(services, m, log)

	apiHandler := handlers.NewHandler(services, log, m)
	srv := server.New(viper.GetString("port"), apiHandler.InitRoutes())
	go func() {
		log.Infow("http_server_started", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(cancel, srv, sub, log)
}

// loadConfig reads configs/config.yml, then SMARTHOME_* environment overrides.
// A missing file is fine; defaults cover every key.
func loadConfig() error {
	viper.SetDefault("port", server.DefaultPort)
	viper.SetDefault("db.path", "catalog.db")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("log.format", logger.FormatConsole)
	viper.SetDefault("auth.token_ttl", time.Hour)
	viper.SetDefault("power.grid_meter_name", service.DefaultGridMeterName)
	viper.SetDefault("power.consumption_model", service.DefaultConsumptionModel)
	viper.SetDefault("power.max_windows", service.DefaultMaxWindows)
	viper.SetDefault("catalog.seed_file", "configs/catalog.yml")
	viper.SetDefault("redis.ttl", cache.DefaultTTL)
	viper.SetDefault("mqtt.client_id", "smart-home-catalog")
	viper.SetDefault("mqtt.topic", "home/readings")

	viper.SetEnvPrefix("SMARTHOME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// seedCatalog loads the reference catalog file. Failures are logged; the
// service still starts with whatever catalog is already stored.
func seedCatalog(ctx context.Context, repos *repository.Repository, log *logger.Logger) {
	path := viper.GetString("catalog.seed_file")
	if path == "" {
		return
	}
	seed, err := catalog.LoadSeedFile(path)
	if err != nil {
		log.Warnw("catalog_seed_skipped", "path", path, "err", err)
		return
	}
	res, err := seed.Apply(ctx, repos.Catalog)
	if err != nil {
		log.Errorw("catalog_seed_failed", "path", path, "err", err)
		return
	}
	log.Infow("catalog_seeded", "path", path, "inserted", res.Inserted, "skipped", res.Skipped)
}

// openCache connects the latest-reading cache when redis.addr is set.
func openCache(ctx context.Context, m *metrics.Metrics, log *logger.Logger) (*redis.Client, service.LatestReadingCache) {
	addr := viper.GetString("redis.addr")
	if addr == "" {
		return nil, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rdb, err := cache.Connect(pingCtx, addr)
	if err != nil {
		log.Warnw("redis_unavailable_cache_disabled", "addr", addr, "err", err)
		return nil, nil
	}
	log.Infow("redis_connected", "addr", addr)
	return rdb, cache.NewRedisCache(rdb, viper.GetDuration("redis.ttl"), m)
}

// startIngest subscribes to MQTT readings when mqtt.broker is set.
func startIngest(services *service.Service, m *metrics.Metrics, log *logger.Logger) *ingest.Subscriber {
	broker := viper.GetString("mqtt.broker")
	if broker == "" {
		return nil
	}
	sub := ingest.NewSubscriber(ingest.Config{
		Broker:   broker,
		ClientID: viper.GetString("mqtt.client_id"),
		Prefix:   viper.GetString("mqtt.topic"),
	}, services.Readings, m, log)
	if err := sub.Start(); err != nil {
		log.Errorw("mqtt_ingest_disabled", "broker", broker, "err", err)
		return nil
	}
	return sub
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, sub *ingest.Subscriber, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()
	if sub != nil {
		sub.Stop()
	}

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
