package zone

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryZone 配送区域 GORM 模型。物流管理侧维护，本服务只读，
// 仅用于给地理分布的省份编码挂上可读名称。
type DeliveryZone struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Name        string          `gorm:"size:128;not null"`
	Regions     string          `gorm:"size:512"` // 覆盖的省份编码，逗号分隔，例如 "16,09,35"
	BaseFee     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TransitDays int             `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// RegionsSlice 解析逗号分隔的编码列表。
func (z DeliveryZone) RegionsSlice() []string {
	if strings.TrimSpace(z.Regions) == "" {
		return nil
	}
	parts := strings.Split(z.Regions, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Covers 判断区域是否覆盖某省份编码。
func (z DeliveryZone) Covers(code string) bool {
	for _, r := range z.RegionsSlice() {
		if r == code {
			return true
		}
	}
	return false
}

// NameFor 在一组区域里找出覆盖某编码的第一个区域名，找不到返回空串。
func NameFor(zones []DeliveryZone, code string) string {
	for _, z := range zones {
		if z.Covers(code) {
			return z.Name
		}
	}
	return ""
}
