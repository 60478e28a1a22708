package analytics

import (
	"math"
	"sort"

	"github.com/mazraa/mazraa-metrics/internal/catalog"
	"github.com/mazraa/mazraa-metrics/internal/order"
)

// Forecast 某商品的断货预警：按近期下单速率估算的剩余天数。
type Forecast struct {
	Name     string `json:"name"`
	DaysLeft int    `json:"days_left"`
	Stock    int    `json:"stock"`
}

// ForecastStock 按窗口内下单速率估算各商品的剩余天数，
// 只保留 daysLeft < thresholdDays 的商品，按紧急程度升序返回。
//
// windowOrders 必须已限定在尾随窗口内；按订单冗余商品名与商品匹配。
// 零流速商品不出预测：没有信号就没有预测，而不是“无限跑道”。
// daysLeft 取整数下位：库存 0 且有流速时为 0（已经断货）。
func ForecastStock(products []catalog.Product, windowOrders []order.Order, windowDays, thresholdDays int) []Forecast {
	if windowDays <= 0 {
		windowDays = 7
	}

	forecasts := make([]Forecast, 0)
	for _, p := range products {
		matched := 0
		for _, o := range windowOrders {
			if p.MatchesOrderName(o.ProductName) {
				matched++
			}
		}
		dailyRate := float64(matched) / float64(windowDays)
		if dailyRate == 0 {
			continue
		}

		daysLeft := int(math.Floor(float64(p.Stock) / dailyRate))
		if daysLeft < thresholdDays {
			forecasts = append(forecasts, Forecast{
				Name:     p.DisplayName(),
				DaysLeft: daysLeft,
				Stock:    p.Stock,
			})
		}
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].DaysLeft < forecasts[j].DaysLeft
	})
	return forecasts
}
