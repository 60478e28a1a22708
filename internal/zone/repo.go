package zone

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ListAll 返回全部配送区域（数量级很小，直接全量拉）。
func (r *Repo) ListAll(ctx context.Context) ([]DeliveryZone, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var zones []DeliveryZone
	if err := r.db.WithContext(ctx).Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
