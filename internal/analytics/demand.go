package analytics

import (
	"sort"

	"github.com/mazraa/mazraa-metrics/internal/order"
)

// fallbackProductName 订单缺失冗余商品名时的统计兜底名。
const fallbackProductName = "Generic Product"

// ProductSales 某商品名的成单次数。
type ProductSales struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

// RankDemand 统计非取消订单中各商品名出现次数，按次数降序取前 topN。
// 计数相同的商品按首次出现顺序排（稳定排序），没有第二排序键。
func RankDemand(orders []order.Order, topN int) []ProductSales {
	counts := make(map[string]int)
	names := make([]string, 0)

	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		name := o.ProductName
		if name == "" {
			name = fallbackProductName
		}
		if _, seen := counts[name]; !seen {
			names = append(names, name)
		}
		counts[name]++
	}

	ranked := make([]ProductSales, 0, len(names))
	for _, n := range names {
		ranked = append(ranked, ProductSales{Name: n, Sales: counts[n]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sales > ranked[j].Sales
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
