package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/order"
)

// Reliability 一次信誉重算的结果，整体覆盖客户的三个派生字段。
type Reliability struct {
	Score       int             // 0~100：终态订单中送达占比
	TotalSpent  decimal.Decimal // 只累计 delivered 订单金额（LTV 口径）
	TotalOrders int             // 全部订单数，量级指标，含取消单
}

// ComputeReliability 基于某客户的全量订单历史计算信誉与生命周期指标。
// 要求传入完整历史而不是窗口子集：函数是当前订单集的纯函数，
// 重复执行结果一致，重试即重新计算。
// 订单列表为空时返回 ok=false，调用方保持客户原值不动。
func ComputeReliability(orders []order.Order) (Reliability, bool) {
	if len(orders) == 0 {
		return Reliability{}, false
	}

	terminal := 0
	delivered := 0
	totalSpent := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case order.StatusDelivered:
			terminal++
			delivered++
			totalSpent = totalSpent.Add(o.TotalAmount)
		case order.StatusCancelled:
			terminal++
		}
	}

	// 没有任何终态订单的客户默认满信任。
	score := 100
	if terminal > 0 {
		score = int(math.Round(100 * float64(delivered) / float64(terminal)))
	}

	return Reliability{
		Score:       score,
		TotalSpent:  totalSpent,
		TotalOrders: len(orders),
	}, true
}
