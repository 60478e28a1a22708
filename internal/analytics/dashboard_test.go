package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/catalog"
	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

type fakeBatchSource struct {
	orders []order.Order
	err    error
}

func (f *fakeBatchSource) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.orders) > limit {
		return f.orders[:limit], nil
	}
	return f.orders, nil
}

type fakeProductSource struct {
	products []catalog.Product
	err      error
}

func (f *fakeProductSource) ListActive(ctx context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

type fakeCustomerCounter struct {
	total int64
	err   error
}

func (f *fakeCustomerCounter) Count(ctx context.Context) (int64, error) {
	return f.total, f.err
}

type fakeZoneSource struct {
	zones []zone.DeliveryZone
}

func (f *fakeZoneSource) ListAll(ctx context.Context) ([]zone.DeliveryZone, error) {
	return f.zones, nil
}

func testComposer(orders []order.Order, products []catalog.Product, customers int64, now time.Time) *Composer {
	c := NewComposer(
		&fakeBatchSource{orders: orders},
		&fakeProductSource{products: products},
		&fakeCustomerCounter{total: customers},
		&fakeZoneSource{},
	)
	c.now = func() time.Time { return now }
	return c
}

func TestComposeDashboard(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	orders := []order.Order{
		{ID: "o1", CustomerID: "c1", ProductName: "دجاج بلدي", Category: "poultry",
			Status: order.StatusDelivered, TotalAmount: decimal.NewFromInt(1000),
			RegionCode: "16", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "o2", CustomerID: "c1", ProductName: "دجاج بلدي", Category: "poultry",
			Status: order.StatusPending, TotalAmount: decimal.NewFromInt(500),
			RegionCode: "16", CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "o3", CustomerID: "c2", ProductName: "بيض عضوي", Category: "poultry",
			Status: order.StatusShipped, TotalAmount: decimal.NewFromInt(300),
			RegionCode: "31", CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "o4", CustomerID: "c3", ProductName: "علف", Category: "feed",
			Status: order.StatusCancelled, TotalAmount: decimal.NewFromInt(9999),
			RegionCode: "31", CreatedAt: now.AddDate(0, 0, -1)},
		// 上一个 7 天窗口
		{ID: "o5", CustomerID: "c1", ProductName: "دجاج بلدي", Category: "poultry",
			Status: order.StatusDelivered, TotalAmount: decimal.NewFromInt(600),
			RegionCode: "16", CreatedAt: now.AddDate(0, 0, -10)},
	}
	products := []catalog.Product{
		{Name: "دجاج بلدي", Stock: 3},  // 窗口 2 单，日均 2/7，约 10 天，但低库存
		{Name: "بيض عضوي", Stock: 100}, // 充足
	}

	dash, err := testComposer(orders, products, 42, now).Compose(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !dash.Stats.Revenue.Equal(decimal.NewFromInt(2400)) {
		t.Fatalf("expected revenue 2400 (cancelled excluded), got %s", dash.Stats.Revenue)
	}
	if dash.Stats.ActiveOrders != 2 {
		t.Fatalf("expected 2 active orders, got %d", dash.Stats.ActiveOrders)
	}
	if dash.Stats.TotalCustomers != 42 {
		t.Fatalf("expected 42 total customers, got %d", dash.Stats.TotalCustomers)
	}
	if dash.Stats.ActiveCustomers != 3 {
		t.Fatalf("expected 3 unique window customers, got %d", dash.Stats.ActiveCustomers)
	}
	if dash.Stats.TopProduct != "دجاج بلدي" {
		t.Fatalf("unexpected top product %q", dash.Stats.TopProduct)
	}
	// 2400 / 4 非取消单 = 600
	if !dash.Stats.AvgOrderValue.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected avg order value 600, got %s", dash.Stats.AvgOrderValue)
	}
	// 近窗营收 1800 vs 前窗 600 = +200%
	if dash.Stats.RevenueChange != 200 {
		t.Fatalf("expected revenue change 200, got %d", dash.Stats.RevenueChange)
	}

	if len(dash.RevenueSeries) != 7 {
		t.Fatalf("expected 7-day series, got %d points", len(dash.RevenueSeries))
	}
	if len(dash.TopProducts) == 0 || dash.TopProducts[0].Sales != 3 {
		t.Fatalf("unexpected demand ranking: %+v", dash.TopProducts)
	}
	if dash.RegionHeat["16"].Count != 3 || dash.RegionHeat["31"].Count != 2 {
		t.Fatalf("unexpected region heat: %+v", dash.RegionHeat)
	}
	if dash.Stats.CriticalStock != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", dash.Stats.CriticalStock)
	}
	if len(dash.Alerts) == 0 || dash.Alerts[0].Type != "critical" {
		t.Fatalf("expected low-stock alert, got %+v", dash.Alerts)
	}
	if !dash.GeneratedAt.Equal(now) {
		t.Fatalf("expected generated_at %v, got %v", now, dash.GeneratedAt)
	}
}

func TestComposeFailsWhenFetchFails(t *testing.T) {
	c := NewComposer(
		&fakeBatchSource{err: errors.New("db down")},
		&fakeProductSource{},
		&fakeCustomerCounter{},
		&fakeZoneSource{},
	)

	if _, err := c.Compose(context.Background()); err == nil {
		t.Fatal("expected compose to fail when orders fetch fails")
	}
}

func TestComposeForecastCap(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	products := make([]catalog.Product, 0, 5)
	orders := make([]order.Order, 0)
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		products = append(products, catalog.Product{Name: n, Stock: 1})
		for i := 0; i < 7; i++ {
			orders = append(orders, order.Order{ProductName: n, Status: order.StatusPending,
				TotalAmount: decimal.NewFromInt(10), CreatedAt: now.AddDate(0, 0, -1)})
		}
	}

	dash, err := testComposer(orders, products, 1, now).Compose(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dash.Forecasts) != 3 {
		t.Fatalf("forecast list must be capped at 3, got %d", len(dash.Forecasts))
	}
}

func TestComposeEmptyBatch(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	dash, err := testComposer(nil, nil, 0, now).Compose(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dash.Stats.Revenue.IsZero() || dash.Stats.ActiveOrders != 0 {
		t.Fatalf("empty batch should produce zero stats: %+v", dash.Stats)
	}
	if dash.Stats.TopProduct != "N/A" {
		t.Fatalf("expected N/A top product, got %q", dash.Stats.TopProduct)
	}
	if len(dash.RevenueSeries) != 7 {
		t.Fatalf("series must still be seeded, got %d points", len(dash.RevenueSeries))
	}
	if !dash.Stats.AvgOrderValue.IsZero() {
		t.Fatalf("avg order value should be zero, got %s", dash.Stats.AvgOrderValue)
	}
}
