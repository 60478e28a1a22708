package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/catalog"
	"github.com/mazraa/mazraa-metrics/internal/common/metrics"
	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

// 仪表盘的默认口径由编排层固定，不属于各子计算的契约。
const (
	recentOrderLimit      = 200            // 一次批量拉取的订单上限
	trendWindowDays       = 7              // 营收趋势 / 预测的尾随窗口
	topProductCount       = 5              // 热销榜长度
	forecastCount         = 3              // 断货预警展示条数
	forecastThresholdDays = 7              // daysLeft 低于该值才预警
	lowStockThreshold     = 10             // 低库存告警阈值
	staleOrderAge         = 24 * time.Hour // 超时未处理告警阈值
	recentActivityCount   = 10             // 实时动态展示条数
)

// OrderBatchSource 仪表盘对订单存储的读依赖。
type OrderBatchSource interface {
	ListRecent(ctx context.Context, limit int) ([]order.Order, error)
}

// ProductSource 仪表盘对商品目录的读依赖。
type ProductSource interface {
	ListActive(ctx context.Context) ([]catalog.Product, error)
}

// CustomerCounter 仪表盘对客户存储的读依赖（只要一个标量）。
type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ZoneSource 配送区域读依赖，仅用于地理分布的名称标注。
type ZoneSource interface {
	ListAll(ctx context.Context) ([]zone.DeliveryZone, error)
}

// DashboardStats 仪表盘顶部的汇总指标。
type DashboardStats struct {
	Revenue         decimal.Decimal `json:"revenue"`           // 批次内非取消订单营收合计
	ActiveOrders    int             `json:"active_orders"`     // pending + shipped
	CriticalStock   int             `json:"critical_stock"`    // 低库存商品数
	ActiveCustomers int             `json:"active_customers"`  // 窗口内去重下单客户数
	TotalCustomers  int64           `json:"total_customers"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	TopProduct      string          `json:"top_product"`
	RevenueChange   int             `json:"revenue_change"` // 近 7 天对比前 7 天，百分比
	OrdersChange    int             `json:"orders_change"`
}

// Alert 运营告警条目。
type Alert struct {
	Type    string `json:"type"` // critical / warning
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// Dashboard 一次批量计算产出的完整视图模型。
type Dashboard struct {
	Stats           DashboardStats             `json:"stats"`
	RevenueSeries   []RevenuePoint             `json:"revenue_series"`
	CategoryRevenue map[string]decimal.Decimal `json:"category_revenue"`
	TopProducts     []ProductSales             `json:"top_products"`
	Forecasts       []Forecast                 `json:"forecasts"`
	RegionHeat      map[string]RegionHeat      `json:"region_heat"`
	Alerts          []Alert                    `json:"alerts"`
	RecentActivity  []order.Order              `json:"recent_activity"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

// Composer 仪表盘编排器：拉一个有界批次，串起各纯计算，组装视图模型。
// 自身不持有任何跨请求状态，每次调用都是拉取-计算-返回。
type Composer struct {
	orders    OrderBatchSource
	products  ProductSource
	customers CustomerCounter
	zones     ZoneSource
	now       func() time.Time
}

func NewComposer(orders OrderBatchSource, products ProductSource, customers CustomerCounter, zones ZoneSource) *Composer {
	return &Composer{
		orders:    orders,
		products:  products,
		customers: customers,
		zones:     zones,
		now:       time.Now,
	}
}

// Compose 执行一轮完整的仪表盘计算。
// 任何一路拉取失败则整体失败，不产出部分结果。
func (c *Composer) Compose(ctx context.Context) (*Dashboard, error) {
	if c == nil || c.orders == nil || c.products == nil || c.customers == nil {
		return nil, fmt.Errorf("composer not initialized")
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "analytics.compose_dashboard")
	defer span.Finish()

	timer := prometheus.NewTimer(metrics.ComposeDuration)
	defer timer.ObserveDuration()

	orders, err := c.orders.ListRecent(ctx, recentOrderLimit)
	if err != nil {
		metrics.ComposeFailuresTotal.Inc()
		return nil, fmt.Errorf("fetch recent orders: %w", err)
	}
	products, err := c.products.ListActive(ctx)
	if err != nil {
		metrics.ComposeFailuresTotal.Inc()
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	totalCustomers, err := c.customers.Count(ctx)
	if err != nil {
		metrics.ComposeFailuresTotal.Inc()
		return nil, fmt.Errorf("count customers: %w", err)
	}
	var zones []zone.DeliveryZone
	if c.zones != nil {
		zones, err = c.zones.ListAll(ctx)
		if err != nil {
			metrics.ComposeFailuresTotal.Inc()
			return nil, fmt.Errorf("fetch delivery zones: %w", err)
		}
	}

	now := c.now()
	windowStart := now.AddDate(0, 0, -trendWindowDays)
	prevWindowStart := now.AddDate(0, 0, -2*trendWindowDays)

	revenue := decimal.Zero
	nonCancelled := 0
	activeOrders := 0
	recentRevenue := decimal.Zero
	prevRevenue := decimal.Zero
	recentCount := 0
	prevCount := 0
	pendingLong := 0
	uniqueCustomers := make(map[string]struct{})
	windowOrders := make([]order.Order, 0, len(orders))

	for _, o := range orders {
		inWindow := !o.CreatedAt.IsZero() && o.CreatedAt.After(windowStart)
		inPrevWindow := !o.CreatedAt.IsZero() && o.CreatedAt.After(prevWindowStart) && !o.CreatedAt.After(windowStart)

		if inWindow {
			windowOrders = append(windowOrders, o)
			recentCount++
			if o.CustomerID != "" {
				uniqueCustomers[o.CustomerID] = struct{}{}
			}
		}
		if inPrevWindow {
			prevCount++
		}

		switch o.Status {
		case order.StatusPending:
			activeOrders++
			if !o.CreatedAt.IsZero() && now.Sub(o.CreatedAt) > staleOrderAge {
				pendingLong++
			}
		case order.StatusShipped:
			activeOrders++
		}

		if o.Status == order.StatusCancelled {
			continue
		}
		revenue = revenue.Add(o.TotalAmount)
		nonCancelled++
		if inWindow {
			recentRevenue = recentRevenue.Add(o.TotalAmount)
		}
		if inPrevWindow {
			prevRevenue = prevRevenue.Add(o.TotalAmount)
		}
	}

	series, byCategory := AggregateRevenue(orders, now, trendWindowDays)
	topProducts := RankDemand(orders, topProductCount)

	forecasts := ForecastStock(products, windowOrders, trendWindowDays, forecastThresholdDays)
	if len(forecasts) > forecastCount {
		forecasts = forecasts[:forecastCount]
	}

	lowStock := 0
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			lowStock++
		}
	}

	avgOrderValue := decimal.Zero
	if nonCancelled > 0 {
		avgOrderValue = revenue.Div(decimal.NewFromInt(int64(nonCancelled))).Round(0)
	}

	topProduct := "N/A"
	if len(topProducts) > 0 {
		topProduct = topProducts[0].Name
	}

	alerts := buildAlerts(lowStock, pendingLong)

	recent := orders
	if len(recent) > recentActivityCount {
		recent = recent[:recentActivityCount]
	}

	metrics.ComposeTotal.Inc()

	return &Dashboard{
		Stats: DashboardStats{
			Revenue:         revenue,
			ActiveOrders:    activeOrders,
			CriticalStock:   lowStock,
			ActiveCustomers: len(uniqueCustomers),
			TotalCustomers:  totalCustomers,
			AvgOrderValue:   avgOrderValue,
			TopProduct:      topProduct,
			RevenueChange:   pctChangeDecimal(recentRevenue, prevRevenue),
			OrdersChange:    pctChangeInt(recentCount, prevCount),
		},
		RevenueSeries:   series,
		CategoryRevenue: byCategory,
		TopProducts:     topProducts,
		Forecasts:       forecasts,
		RegionHeat:      MapGeoDistribution(orders, zones),
		Alerts:          alerts,
		RecentActivity:  recent,
		GeneratedAt:     now,
	}, nil
}

// buildAlerts 组装运营告警。消息为面向后台的阿拉伯语文案，
// 与存量后台保持一致（3~10 与 11 以上使用不同的名词复数形式）。
func buildAlerts(lowStock, pendingLong int) []Alert {
	alerts := make([]Alert, 0, 2)
	if lowStock > 0 {
		itemName := "منتجاً"
		if lowStock > 2 && lowStock <= 10 {
			itemName = "منتجات"
		}
		alerts = append(alerts, Alert{
			Type:    "critical",
			Message: fmt.Sprintf("يوجد %d %s بمخزون منخفض", lowStock, itemName),
			Link:    "/inventory/breeds",
		})
	}
	if pendingLong > 0 {
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: fmt.Sprintf("%d طلب متأخر يحتاج للمعالجة", pendingLong),
			Link:    "/orders",
		})
	}
	return alerts
}

// pctChangeDecimal 周环比百分比：上期为零时，本期有值记 100，否则 0。
func pctChangeDecimal(cur, prev decimal.Decimal) int {
	if prev.IsPositive() {
		return int(cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}
	if cur.IsPositive() {
		return 100
	}
	return 0
}

func pctChangeInt(cur, prev int) int {
	if prev > 0 {
		return int(math.Round(float64(cur-prev) / float64(prev) * 100))
	}
	if cur > 0 {
		return 100
	}
	return 0
}
