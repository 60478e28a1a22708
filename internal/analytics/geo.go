package analytics

import (
	"strconv"
	"strings"

	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

// FallbackRegionCode 无法解析归属省份时的默认编码（16 = 阿尔及尔）。
const FallbackRegionCode = "16"

// 阿尔及利亚省份编码范围 01~58。
const maxRegionCode = 58

// RegionHeat 某省份的地理分布热度：原始计数供悬浮提示，
// lightness 是给地图渲染的有界线性色阶（近白 95 → 饱和 45）。
type RegionHeat struct {
	Count     int     `json:"count"`
	Lightness float64 `json:"lightness"`
	Zone      string  `json:"zone,omitempty"`
}

// ParseRegionCode 从自由文本地址（“详细地址, 省份”）提取省份编码：
// 取最后一个逗号分段，纯数字且在编码范围内时规范化为两位，
// 否则回退默认编码。这是历史数据的启发式解析，新订单写入时
// 应当直接落规范化的 region_code 列。
func ParseRegionCode(address string) string {
	parts := strings.Split(address, ",")
	token := strings.TrimSpace(parts[len(parts)-1])
	if token == "" || len(token) > 2 {
		return FallbackRegionCode
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > maxRegionCode {
		return FallbackRegionCode
	}
	if len(token) == 1 {
		return "0" + token
	}
	return token
}

// regionOf 订单归属省份：优先规范化列，旧数据回退启发式解析。
func regionOf(o order.Order) string {
	if o.RegionCode != "" {
		return o.RegionCode
	}
	return ParseRegionCode(o.WilayaAddress)
}

// HeatScale 把省份计数映射为色阶：lightness = 95 - min(v/max, 1) * 50。
func HeatScale(counts map[string]int) map[string]RegionHeat {
	maxCount := 1
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	heat := make(map[string]RegionHeat, len(counts))
	for code, c := range counts {
		intensity := float64(c) / float64(maxCount)
		if intensity > 1 {
			intensity = 1
		}
		heat[code] = RegionHeat{
			Count:     c,
			Lightness: 95 - intensity*50,
		}
	}
	return heat
}

// MapGeoDistribution 按目的省份统计订单并映射为地图色阶，
// zones 只用来给编码挂可读名称，可以为空。
func MapGeoDistribution(orders []order.Order, zones []zone.DeliveryZone) map[string]RegionHeat {
	counts := make(map[string]int)
	for _, o := range orders {
		counts[regionOf(o)]++
	}

	heat := HeatScale(counts)
	if len(zones) > 0 {
		for code, h := range heat {
			h.Zone = zone.NameFor(zones, code)
			heat[code] = h
		}
	}
	return heat
}
