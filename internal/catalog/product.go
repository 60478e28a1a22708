package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品 GORM 模型。目录管理侧维护，本服务只读。
// DeletedAt 对应后台的“回收站”软删除，库存预测只看未删除商品。
type Product struct {
	ID       string          `gorm:"primaryKey;size:36"`
	Name     string          `gorm:"size:128;not null"` // 展示名（阿拉伯语）
	NameEn   string          `gorm:"size:128"`          // 拉丁名，订单冗余名可能匹配两者之一
	Category string          `gorm:"size:32;index"`
	Stock    int             `gorm:"not null;default:0"` // 当前库存，权威库存信号，非负
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// DisplayName 优先返回拉丁名（仪表盘口径与后台一致）。
func (p Product) DisplayName() string {
	if p.NameEn != "" {
		return p.NameEn
	}
	if p.Name != "" {
		return p.Name
	}
	return "Unknown"
}

// MatchesOrderName 判断订单上冗余的商品名是否指向本商品。
func (p Product) MatchesOrderName(name string) bool {
	if name == "" {
		return false
	}
	return name == p.Name || name == p.NameEn
}
