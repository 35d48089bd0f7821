package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
)

// HistoryRepository 历史班次数据访问接口
// 历史行不可变：只有批量写入与按批次删除，没有单行更新。
type HistoryRepository interface {
	BatchCreate(ctx context.Context, records []model.HistoricalSchedule) error
	ListByBatch(ctx context.Context, batchID string) ([]model.HistoricalSchedule, error)
	CountByBatch(ctx context.Context, batchID string) (int64, error)
	DeleteByBatch(ctx context.Context, batchID string) (int64, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) BatchCreate(ctx context.Context, records []model.HistoricalSchedule) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *historyRepo) ListByBatch(ctx context.Context, batchID string) ([]model.HistoricalSchedule, error) {
	var records []model.HistoricalSchedule
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("staff_id ASC, start_at ASC").
		Find(&records).Error
	return records, err
}

func (r *historyRepo) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.HistoricalSchedule{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

func (r *historyRepo) DeleteByBatch(ctx context.Context, batchID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&model.HistoricalSchedule{})
	return result.RowsAffected, result.Error
}

// SnapshotLogRepository 快照批次日志数据访问接口
type SnapshotLogRepository interface {
	Create(ctx context.Context, log *model.SnapshotLog) error
	GetByBatch(ctx context.Context, batchID string) (*model.SnapshotLog, error)
	UpdateStatus(ctx context.Context, batchID string, fields map[string]interface{}) error
	ListSince(ctx context.Context, from time.Time) ([]model.SnapshotLog, error)
}

type snapshotLogRepo struct {
	db *gorm.DB
}

func NewSnapshotLogRepo(db *gorm.DB) SnapshotLogRepository {
	return &snapshotLogRepo{db: db}
}

func (r *snapshotLogRepo) Create(ctx context.Context, log *model.SnapshotLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *snapshotLogRepo) GetByBatch(ctx context.Context, batchID string) (*model.SnapshotLog, error) {
	var log model.SnapshotLog
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *snapshotLogRepo) UpdateStatus(ctx context.Context, batchID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SnapshotLog{}).
		Where("batch_id = ?", batchID).
		Updates(fields).Error
}

func (r *snapshotLogRepo) ListSince(ctx context.Context, from time.Time) ([]model.SnapshotLog, error) {
	var logs []model.SnapshotLog
	err := r.db.WithContext(ctx).
		Where("target_date >= ?", from.Format("2006-01-02")).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
