package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mazraa/mazraa-metrics/internal/common/config"
	"github.com/mazraa/mazraa-metrics/internal/common/discovery"
	"github.com/mazraa/mazraa-metrics/internal/common/logger"
)

// RegisterRoutesFunc 注册业务 HTTP 路由。
type RegisterRoutesFunc func(e *echo.Echo)

type RunOptions struct {
	EnableReflection bool
	ShutdownTimeout  time.Duration
}

func defaultRunOptions() RunOptions {
	return RunOptions{
		EnableReflection: true,
		ShutdownTimeout:  5 * time.Second,
	}
}

// Run 统一的服务启动模板：
// - HTTP listener：echo 业务路由 + /healthz + /metrics
// - gRPC listener：health + reflection（供 Consul 的 gRPC check 探测，
//   业务 proto 落地前只有 health）
// - 两个监听都注册到 Consul（失败不阻塞启动）
// - 统一信号处理与优雅退出
func Run(cfg *config.Config, log logger.Logger, register RegisterRoutesFunc, opts ...func(*RunOptions)) error {
	if cfg == nil {
		return fmt.Errorf("cfg is nil")
	}
	if log == nil {
		return fmt.Errorf("log is nil")
	}

	o := defaultRunOptions()
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}

	// 初始化 Consul 客户端（失败不阻塞服务启动）
	consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
	if err != nil {
		log.Warnf("failed to connect to Consul: %v", err)
		consulClient = nil
	}

	// gRPC：health-only
	grpcLis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen grpc: %w", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(UnaryChain(
		UnaryRecoveryInterceptor(log),
		UnaryTracingInterceptor(cfg.Server.Name),
		UnaryAccessLogInterceptor(log),
	)))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	if o.EnableReflection {
		reflection.Register(s)
	}

	// HTTP：业务路由
	e := newEcho(cfg.Server.Name, log)
	if register != nil {
		register(e)
	}

	// 注册到 Consul（成功才 defer 注销）
	if consulClient != nil {
		registries := []*discovery.ServiceRegistry{
			discovery.NewServiceRegistry(consulClient,
				fmt.Sprintf("%s-%s", cfg.Server.Name, uuid.New().String()),
				cfg.Server.Name, cfg.Server.Host, cfg.Server.HTTPPort,
				[]string{"http"}, discovery.CheckHTTP),
			discovery.NewServiceRegistry(consulClient,
				fmt.Sprintf("%s-grpc-%s", cfg.Server.Name, uuid.New().String()),
				cfg.Server.Name+"-grpc", cfg.Server.Host, cfg.Server.GRPCPort,
				[]string{"grpc"}, discovery.CheckGRPC),
		}
		for _, registry := range registries {
			reg := registry
			if err := reg.Register(); err != nil {
				log.Warnf("failed to register service to Consul: %v", err)
				continue
			}
			defer func() {
				if err := reg.Deregister(); err != nil {
					log.Warnf("failed to deregister service from Consul: %v", err)
				}
			}()
		}
	}

	serveErr := make(chan error, 2)
	go func() {
		if err := s.Serve(grpcLis); err != nil {
			serveErr <- fmt.Errorf("grpc serve failed: %w", err)
		}
	}()
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		log.Infof("%s listening on http %s, grpc %s:%d", cfg.Server.Name, addr, cfg.Server.Host, cfg.Server.GRPCPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("http serve failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("received signal %v, shutting down...", sig)
	case err := <-serveErr:
		return err
	}

	// 优雅关闭：先 HTTP 后 gRPC
	ctx, cancel := context.WithTimeout(context.Background(), o.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Warnf("http shutdown error: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-ctx.Done():
		log.Warn("grpc shutdown timeout, forcing stop...")
		s.Stop()
	case <-stopped:
		log.Info("server stopped gracefully")
	}

	return nil
}

// WithShutdownTimeout 修改优雅退出等待时间。
func WithShutdownTimeout(d time.Duration) func(*RunOptions) {
	return func(o *RunOptions) {
		if d > 0 {
			o.ShutdownTimeout = d
		}
	}
}

// WithReflection 控制是否启用 gRPC reflection。
func WithReflection(enable bool) func(*RunOptions) {
	return func(o *RunOptions) {
		o.EnableReflection = enable
	}
}
