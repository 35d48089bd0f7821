package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
)

// MonthlyPlanRepository 月度计划数据访问接口（写路径在计划导入管道，本服务只读）
type MonthlyPlanRepository interface {
	ListByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]model.MonthlyPlanEntry, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.MonthlyPlanEntry, error)
}

type monthlyPlanRepo struct {
	db *gorm.DB
}

func NewMonthlyPlanRepo(db *gorm.DB) MonthlyPlanRepository {
	return &monthlyPlanRepo{db: db}
}

func (r *monthlyPlanRepo) ListByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]model.MonthlyPlanEntry, error) {
	var entries []model.MonthlyPlanEntry
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND target_date = ?", staffID, date.Format("2006-01-02")).
		Order("start_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *monthlyPlanRepo) ListByDate(ctx context.Context, date time.Time) ([]model.MonthlyPlanEntry, error) {
	var entries []model.MonthlyPlanEntry
	err := r.db.WithContext(ctx).
		Where("target_date = ?", date.Format("2006-01-02")).
		Order("staff_id ASC, start_at ASC").
		Find(&entries).Error
	return entries, err
}
