package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mazraa/mazraa-metrics/internal/analytics"
	"github.com/mazraa/mazraa-metrics/internal/common/logger"
	"github.com/mazraa/mazraa-metrics/internal/common/middleware"
	"github.com/mazraa/mazraa-metrics/internal/customer"
	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

// Handler 暴露派生指标的 HTTP 接口层。
// 仪表盘入口带熔断与限流：计算是全表批量拉取，属于重接口。
type Handler struct {
	composer  *analytics.Composer
	orders    *order.Service
	orderRepo *order.Repo
	customers *customer.Repo
	zones     *zone.Repo
	breaker   *middleware.Breaker
	limiter   middleware.RateLimiter
	log       logger.Logger
}

func NewHandler(composer *analytics.Composer, orders *order.Service, orderRepo *order.Repo,
	customers *customer.Repo, zones *zone.Repo, log logger.Logger) *Handler {
	return &Handler{
		composer:  composer,
		orders:    orders,
		orderRepo: orderRepo,
		customers: customers,
		zones:     zones,
		breaker:   middleware.NewBreaker(5, 30*time.Second),
		limiter:   middleware.NewTokenBucket(10, 5),
		log:       log,
	}
}

// Register 挂载业务路由。/healthz 与 /metrics 由服务模板提供。
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard", h.getDashboard, middleware.RateLimit(h.limiter))
	g.GET("/customers/:id", h.getCustomer)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)
	g.GET("/regions/heat", h.getRegionHeat)
}

// getDashboard 一次批量计算返回完整仪表盘视图。
func (h *Handler) getDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	var dash *analytics.Dashboard
	err := h.breaker.Do(ctx, func(ctx context.Context) error {
		var composeErr error
		dash, composeErr = h.composer.Compose(ctx)
		return composeErr
	})
	if err != nil {
		if errors.Is(err, middleware.ErrBreakerOpen) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "dashboard temporarily unavailable")
		}
		h.log.Errorf("compose dashboard failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compose dashboard")
	}
	return c.JSON(http.StatusOK, dash)
}

// customerProfile 客户画像视图：存量派生字段 + 最近订单。
type customerProfile struct {
	Customer     *customer.Customer `json:"customer"`
	RecentOrders []order.Order      `json:"recent_orders"`
}

func (h *Handler) getCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	cust, err := h.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		h.log.Errorf("get customer %s failed: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load customer")
	}

	orders, err := h.orderRepo.ListByCustomer(ctx, id)
	if err != nil {
		h.log.Errorf("list orders for customer %s failed: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load customer orders")
	}
	if len(orders) > 20 {
		orders = orders[:20]
	}

	return c.JSON(http.StatusOK, customerProfile{Customer: cust, RecentOrders: orders})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatus 订单状态流转入口。进入终态时联动信誉重算；
// 重算失败返回 502，但状态本身已落库，客户端重试是安全的。
func (h *Handler) updateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	to := order.Status(req.Status)
	if !to.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status: "+req.Status)
	}

	o, err := h.orders.UpdateStatus(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case o != nil:
			// 状态已更新，只有派生指标重算失败
			h.log.Errorf("order %s: %v", id, err)
			return echo.NewHTTPError(http.StatusBadGateway, "status updated but metrics recalc failed")
		default:
			h.log.Errorf("update order %s status failed: %v", id, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update order status")
		}
	}
	return c.JSON(http.StatusOK, o)
}

// getRegionHeat 轻量版地理分布接口，供地图组件单独刷新。
func (h *Handler) getRegionHeat(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderRepo.ListRecent(ctx, 200)
	if err != nil {
		h.log.Errorf("list recent orders failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load orders")
	}

	var zones []zone.DeliveryZone
	if h.zones != nil {
		zones, err = h.zones.ListAll(ctx)
		if err != nil {
			h.log.Errorf("list delivery zones failed: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load zones")
		}
	}

	return c.JSON(http.StatusOK, analytics.MapGeoDistribution(orders, zones))
}
