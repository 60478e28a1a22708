package order

import (
	"context"
	"fmt"
	"time"

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

func (r *Repo) Create(ctx context.Context, o *Order) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(o).Error
}

func (r *Repo) Update(ctx context.Context, o *Order) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(o).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Order, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var o Order
	if err := db.Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByCustomer 返回某客户的全量订单（信誉重算要求完整历史，不做分页）。
func (r *Repo) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if customerID == "" {
		return nil, fmt.Errorf("customer_id required")
	}
	var orders []Order
	if err := db.Where("customer_id = ?", customerID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecent 按创建时间倒序返回最近 limit 条订单（仪表盘批量拉取入口）。
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 200
	}
	var orders []Order
	if err := db.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListSince 返回 since 之后创建的订单，可按状态过滤。
func (r *Repo) ListSince(ctx context.Context, since time.Time, statuses ...Status) ([]Order, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Where("created_at > ?", since)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var orders []Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListMissingRegion 分批返回 region_code 尚未回填的订单（迁移工具用）。
func (r *Repo) ListMissingRegion(ctx context.Context, offset, limit int) ([]Order, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 500
	}
	var orders []Order
	err := db.Where("region_code = '' OR region_code IS NULL").
		Order("created_at ASC").Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateRegionCode 只回填规范化省份编码，不触碰其它字段。
func (r *Repo) UpdateRegionCode(ctx context.Context, id, code string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Order{}).Where("id = ?", id).
		Update("region_code", code).Error
}
