package repository

import (
	"context"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
)

// ContractBaselineRepository 合同基准数据访问接口（本服务只读）
type ContractBaselineRepository interface {
	GetByStaff(ctx context.Context, staffID int64) (*model.ContractBaseline, error)
}

type contractBaselineRepo struct {
	db *gorm.DB
}

func NewContractBaselineRepo(db *gorm.DB) ContractBaselineRepository {
	return &contractBaselineRepo{db: db}
}

func (r *contractBaselineRepo) GetByStaff(ctx context.Context, staffID int64) (*model.ContractBaseline, error) {
	var baseline model.ContractBaseline
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		First(&baseline).Error
	if err != nil {
		return nil, err
	}
	return &baseline, nil
}
