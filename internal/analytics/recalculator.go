package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/common/logger"
	"github.com/mazraa/mazraa-metrics/internal/common/metrics"
	"github.com/mazraa/mazraa-metrics/internal/order"
)

// OrderSource 信誉重算对订单存储的最小读依赖。
type OrderSource interface {
	ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error)
}

// CustomerSink 信誉重算对客户存储的唯一写依赖：整体覆盖三个派生字段。
type CustomerSink interface {
	UpdateDerived(ctx context.Context, id string, score int, totalSpent decimal.Decimal, totalOrders int) error
}

// Recalculator 客户信誉重算服务（order.TerminalHook 的实现）。
//
// 同一客户的两笔订单先后进入终态时，两次重算可能并发触发；
// 虽然计算本身幂等，但读订单集和写回之间若与第三次写交错，
// 旧读可能覆盖新结果。因此按客户 ID 串行：锁内完成读-算-写。
type Recalculator struct {
	orders OrderSource
	sink   CustomerSink
	log    logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecalculator(orders OrderSource, sink CustomerSink, log logger.Logger) *Recalculator {
	return &Recalculator{
		orders: orders,
		sink:   sink,
		log:    log,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockFor 返回某客户的串行锁。客户数量有限，条目不回收。
func (r *Recalculator) lockFor(customerID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[customerID] = l
	}
	return l
}

// OnTerminal 在订单进入终态后重算客户派生指标。
// customerID 为空（匿名/历史订单）时直接跳过。
// 拉取失败时整体放弃，客户原值不动；重试即重新全量计算。
func (r *Recalculator) OnTerminal(ctx context.Context, customerID string) error {
	if r == nil || r.orders == nil || r.sink == nil {
		return fmt.Errorf("recalculator not initialized")
	}
	if customerID == "" {
		return nil
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "analytics.recalc_reliability")
	defer span.Finish()
	span.SetTag("customer_id", customerID)

	l := r.lockFor(customerID)
	l.Lock()
	defer l.Unlock()

	timer := prometheus.NewTimer(metrics.RecalcDuration)
	defer timer.ObserveDuration()

	orders, err := r.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		metrics.RecalcFailuresTotal.Inc()
		return fmt.Errorf("fetch orders for customer %s: %w", customerID, err)
	}

	rel, ok := ComputeReliability(orders)
	if !ok {
		// 没有订单就没有定义好的分数，保持默认值。
		return nil
	}

	if err := r.sink.UpdateDerived(ctx, customerID, rel.Score, rel.TotalSpent, rel.TotalOrders); err != nil {
		metrics.RecalcFailuresTotal.Inc()
		return fmt.Errorf("write back derived fields for customer %s: %w", customerID, err)
	}

	metrics.RecalcTotal.Inc()
	if r.log != nil {
		r.log.WithFields(map[string]interface{}{
			"customer_id":  customerID,
			"score":        rel.Score,
			"total_spent":  rel.TotalSpent.String(),
			"total_orders": rel.TotalOrders,
		}).Debug("customer reliability recalculated")
	}
	return nil
}
