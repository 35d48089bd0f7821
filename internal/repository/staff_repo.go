package repository

import (
	"context"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
)

// StaffRepository 员工数据访问接口（本服务只读）
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
	ListActive(ctx context.Context) ([]model.Staff, error)
}

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListActive(ctx context.Context) ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("staff_id ASC").
		Find(&staffs).Error
	return staffs, err
}
