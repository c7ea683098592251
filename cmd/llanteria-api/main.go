package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/llanteria/llanteria/internal/admin"
	"github.com/llanteria/llanteria/internal/asset"
	"github.com/llanteria/llanteria/internal/common/config"
	"github.com/llanteria/llanteria/internal/common/db"
	"github.com/llanteria/llanteria/internal/common/logger"
	"github.com/llanteria/llanteria/internal/common/middleware"
	"github.com/llanteria/llanteria/internal/common/server"
	"github.com/llanteria/llanteria/internal/common/tracing"
	"github.com/llanteria/llanteria/internal/httpapi"
	"github.com/llanteria/llanteria/internal/tire"
)

var (
	configPath = flag.String("config", "configs/llanteria-api.json", "config file path")
	consulKey  = flag.String("consul-config-key", "", "load config from Consul KV under this key instead of the file")
)

func main() {
	flag.Parse()

	// Load config: Consul KV when a key is given, the JSON file otherwise.
	var (
		cfg *config.Config
		err error
	)
	if *consulKey != "" {
		fileCfg := config.DefaultConfig()
		cfg, err = config.LoadConfigFromConsulKV(fileCfg.Consul.Host, fileCfg.Consul.Port, *consulKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Init logger
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// Init tracing
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// Init database: the manager owns the pool and the reconnect watchdog.
	manager, err := db.NewManager(cfg.Database, log)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Shutdown(ctx); err != nil {
			log.Warnf("database shutdown: %v", err)
		}
	}()

	if err := manager.DB().AutoMigrate(&admin.Administrador{}, &tire.Neumatico{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// Wire the domain
	binder := asset.NewBinder(cfg.Uploads)
	admins := admin.NewService(admin.NewRepo(manager.DB()), cfg.Auth)
	tires := tire.NewService(tire.NewRepo(manager.DB()), binder)
	handler := httpapi.NewHandler(cfg, log, admins, tires, manager.Healthy)

	// Outer middleware chain, innermost last.
	chained := server.Chain(
		handler.Routes(),
		server.Recovery(log),
		server.Tracing(cfg.Server.Name),
		server.AccessLog(log),
		server.CORS(),
		server.RateLimit(middleware.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)),
	)

	if err := server.RunHTTPServer(cfg, log, chained); err != nil {
		log.Fatalf("llanteria-api exited with error: %v", err)
	}
}
