package customer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Customer, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Customer
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Count 返回客户总数（仪表盘标量指标）。
func (r *Repo) Count(ctx context.Context) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	if err := db.Model(&Customer{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateDerived 整体覆盖三个派生字段。只允许信誉重算调用。
func (r *Repo) UpdateDerived(ctx context.Context, id string, score int, totalSpent decimal.Decimal, totalOrders int) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	if id == "" {
		return fmt.Errorf("customer id required")
	}
	return db.Model(&Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reliability_score": score,
		"total_spent":       totalSpent,
		"total_orders":      totalOrders,
	}).Error
}
