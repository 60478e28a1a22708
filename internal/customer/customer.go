package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer 客户 GORM 模型。
// 三个派生字段（ReliabilityScore / TotalSpent / TotalOrders）由信誉重算
// 独占写入，并且每次整体覆盖，不做增量修补，避免漏事件导致漂移。
type Customer struct {
	ID    string `gorm:"primaryKey;size:36"`
	Name  string `gorm:"size:128"`
	Phone string `gorm:"size:32;index"`

	ReliabilityScore int             `gorm:"not null;default:100"` // 0~100，没有终态订单时默认满分
	TotalSpent       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalOrders      int             `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
