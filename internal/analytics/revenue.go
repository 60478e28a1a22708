package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/order"
)

// dayLabelFormat 日序列的桶标签格式。播种与归桶必须使用同一格式，
// 窗口不超过一年时标签不重复。
const dayLabelFormat = "Jan 02"

// defaultCategory 订单缺失分类时的兜底分类。
const defaultCategory = "livestock"

// RevenuePoint 日营收序列中的一个点。
type RevenuePoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// AggregateRevenue 把一批订单聚合为尾随窗口内的日营收序列 + 分类营收合计。
//
// 序列先为窗口内每一天（旧到新）播种零值，再逐单归桶累加，
// 因此输入顺序无关，且无单的日子也占位。取消单全程不计；
// 下单时间未知的订单无法归桶，但仍计入分类合计。
func AggregateRevenue(orders []order.Order, now time.Time, windowDays int) ([]RevenuePoint, map[string]decimal.Decimal) {
	if windowDays <= 0 {
		windowDays = 7
	}

	series := make([]RevenuePoint, 0, windowDays)
	index := make(map[string]int, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		label := now.AddDate(0, 0, -i).Format(dayLabelFormat)
		index[label] = len(series)
		series = append(series, RevenuePoint{Label: label, Revenue: decimal.Zero})
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}

		cat := o.Category
		if cat == "" {
			cat = defaultCategory
		}
		byCategory[cat] = byCategory[cat].Add(o.TotalAmount)

		if o.CreatedAt.IsZero() {
			continue
		}
		if i, ok := index[o.CreatedAt.Format(dayLabelFormat)]; ok {
			series[i].Revenue = series[i].Revenue.Add(o.TotalAmount)
		}
	}

	return series, byCategory
}
