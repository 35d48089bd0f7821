package repository

import (
	"context"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
)

// ApprovalLogRepository 审批流水数据访问接口（追加为主）
type ApprovalLogRepository interface {
	Create(ctx context.Context, log *model.PendingApprovalLog) error
	ListByAdjustment(ctx context.Context, adjustmentID int64) ([]model.PendingApprovalLog, error)
	// DeleteByAdjustment 仅用于 Draft 记录删除时的级联清理
	DeleteByAdjustment(ctx context.Context, adjustmentID int64) error
}

type approvalLogRepo struct {
	db *gorm.DB
}

func NewApprovalLogRepo(db *gorm.DB) ApprovalLogRepository {
	return &approvalLogRepo{db: db}
}

func (r *approvalLogRepo) Create(ctx context.Context, log *model.PendingApprovalLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *approvalLogRepo) ListByAdjustment(ctx context.Context, adjustmentID int64) ([]model.PendingApprovalLog, error) {
	var logs []model.PendingApprovalLog
	err := r.db.WithContext(ctx).
		Where("adjustment_id = ?", adjustmentID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *approvalLogRepo) DeleteByAdjustment(ctx context.Context, adjustmentID int64) error {
	return r.db.WithContext(ctx).
		Where("adjustment_id = ?", adjustmentID).
		Delete(&model.PendingApprovalLog{}).Error
}
