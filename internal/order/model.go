package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态枚举（持久化为字符串）。
type Status string

const (
	StatusPending   Status = "pending"   // 待处理
	StatusShipped   Status = "shipped"   // 已发货
	StatusDelivered Status = "delivered" // 已送达（终态）
	StatusCancelled Status = "cancelled" // 已取消（终态）
)

// Terminal 判断是否为终态（正常业务流下不会再流转）。
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid 判断是否为已知状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order 订单 GORM 模型。除 status 外创建后不可变。
type Order struct {
	ID string `gorm:"primaryKey;size:36"`

	// 业务关联（均允许为空：历史数据 / 匿名下单 / 手工录入）
	CustomerID  string `gorm:"index;size:36"`
	ProductID   string `gorm:"index;size:36"`
	ProductName string `gorm:"size:128"` // 下单时冗余的商品名，商品删除后的兜底口径
	Category    string `gorm:"size:32"`

	// 金额信息
	Quantity    int             `gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// 收货信息
	WilayaAddress string `gorm:"size:255"`     // 自由文本：“详细地址, 省份”
	RegionCode    string `gorm:"size:2;index"` // 规范化省份编码 01~58，旧数据可为空

	Status Status `gorm:"type:varchar(16);index;not null"`

	// CreatedAt 为零值表示下单时间未知（历史导入数据）。
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
