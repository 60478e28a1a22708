package main

import (
	"flag"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/mazraa/mazraa-metrics/internal/analytics"
	"github.com/mazraa/mazraa-metrics/internal/api"
	"github.com/mazraa/mazraa-metrics/internal/catalog"
	"github.com/mazraa/mazraa-metrics/internal/common/config"
	"github.com/mazraa/mazraa-metrics/internal/common/db"
	"github.com/mazraa/mazraa-metrics/internal/common/logger"
	"github.com/mazraa/mazraa-metrics/internal/common/metrics"
	"github.com/mazraa/mazraa-metrics/internal/common/server"
	"github.com/mazraa/mazraa-metrics/internal/common/tracing"
	"github.com/mazraa/mazraa-metrics/internal/customer"
	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

var (
	configPath = flag.String("config", "configs/metrics-service.json", "配置文件路径")
	consulKey  = flag.String("consul-kv", "", "从 Consul KV 读取配置的 key（优先于配置文件）")
)

func main() {
	flag.Parse()

	// 加载配置
	var cfg *config.Config
	var err error
	if *consulKey != "" {
		base := config.GetConfig()
		cfg, err = config.LoadConfigFromConsulKV(base.Consul.Host, base.Consul.Port, *consulKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.New(logger.Options{
		Driver: cfg.Log.Driver,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化指标
	metrics.Register()

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&order.Order{},
		&catalog.Product{},
		&customer.Customer{},
		&zone.DeliveryZone{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 组装依赖：repo -> 重算/编排 -> 订单用例 -> HTTP 接口层
	orderRepo := order.NewRepo(gormDB)
	productRepo := catalog.NewRepo(gormDB)
	customerRepo := customer.NewRepo(gormDB)
	zoneRepo := zone.NewRepo(gormDB)

	recalculator := analytics.NewRecalculator(orderRepo, customerRepo, log)
	orderService := order.NewService(orderRepo, recalculator)
	composer := analytics.NewComposer(orderRepo, productRepo, customerRepo, zoneRepo)
	handler := api.NewHandler(composer, orderService, orderRepo, customerRepo, zoneRepo, log)

	// 启动统一的服务模板（HTTP 业务路由 + gRPC health）
	if err := server.Run(cfg, log, func(e *echo.Echo) {
		handler.Register(e)
	}); err != nil {
		log.Fatalf("metrics-service exited with error: %v", err)
	}
}
