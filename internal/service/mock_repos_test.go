package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staff-roster/backend/internal/model"
	"staff-roster/backend/internal/repository"
)

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staffs map[int64]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staffs: make(map[int64]*model.Staff)}
}

func (m *mockStaffRepo) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	if s, ok := m.staffs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListActive(_ context.Context) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staffs {
		if s.IsActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock ContractBaselineRepository ──

type mockBaselineRepo struct {
	baselines map[int64]*model.ContractBaseline
}

func newMockBaselineRepo() *mockBaselineRepo {
	return &mockBaselineRepo{baselines: make(map[int64]*model.ContractBaseline)}
}

func (m *mockBaselineRepo) GetByStaff(_ context.Context, staffID int64) (*model.ContractBaseline, error) {
	if b, ok := m.baselines[staffID]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock MonthlyPlanRepository ──

type mockMonthlyRepo struct {
	entries []model.MonthlyPlanEntry
}

func newMockMonthlyRepo() *mockMonthlyRepo {
	return &mockMonthlyRepo{}
}

func (m *mockMonthlyRepo) ListByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]model.MonthlyPlanEntry, error) {
	var result []model.MonthlyPlanEntry
	for _, e := range m.entries {
		if e.StaffID == staffID && sameDate(e.TargetDate, date) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockMonthlyRepo) ListByDate(_ context.Context, date time.Time) ([]model.MonthlyPlanEntry, error) {
	var result []model.MonthlyPlanEntry
	for _, e := range m.entries {
		if sameDate(e.TargetDate, date) {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock AdjustmentRepository ──

type mockAdjustmentRepo struct {
	entries map[int64]*model.AdjustmentEntry
	nextID  int64
	staffs  *mockStaffRepo // Preload("Staff") 的等价物
}

func newMockAdjustmentRepo(staffs *mockStaffRepo) *mockAdjustmentRepo {
	return &mockAdjustmentRepo{
		entries: make(map[int64]*model.AdjustmentEntry),
		nextID:  1,
		staffs:  staffs,
	}
}

func (m *mockAdjustmentRepo) withStaff(e *model.AdjustmentEntry) *model.AdjustmentEntry {
	c := *e
	if m.staffs != nil {
		if s, ok := m.staffs.staffs[e.StaffID]; ok {
			c.Staff = s
		}
	}
	return &c
}

func (m *mockAdjustmentRepo) Create(_ context.Context, entry *model.AdjustmentEntry) error {
	if entry.AdjustmentID == 0 {
		entry.AdjustmentID = m.nextID
		m.nextID++
	}
	stored := *entry
	m.entries[entry.AdjustmentID] = &stored
	return nil
}

func (m *mockAdjustmentRepo) GetByID(_ context.Context, id int64) (*model.AdjustmentEntry, error) {
	if e, ok := m.entries[id]; ok {
		return m.withStaff(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdjustmentRepo) ListResolved(_ context.Context, staffID int64, date time.Time, includeApprovedPending bool) ([]model.AdjustmentEntry, error) {
	var result []model.AdjustmentEntry
	for _, e := range m.entries {
		if e.StaffID != staffID || !sameDate(e.TargetDate, date) {
			continue
		}
		if e.IsPending {
			if !includeApprovedPending || e.ApprovedAt == nil {
				continue
			}
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockAdjustmentRepo) ListByDate(_ context.Context, date time.Time) ([]model.AdjustmentEntry, error) {
	var result []model.AdjustmentEntry
	for _, e := range m.entries {
		if sameDate(e.TargetDate, date) {
			result = append(result, *m.withStaff(e))
		}
	}
	return result, nil
}

func (m *mockAdjustmentRepo) ListPending(_ context.Context, filter repository.PendingFilter) ([]model.AdjustmentEntry, error) {
	var result []model.AdjustmentEntry
	for _, e := range m.entries {
		if !e.IsPending {
			continue
		}
		if filter.StaffID != nil && e.StaffID != *filter.StaffID {
			continue
		}
		if filter.Date != nil && !sameDate(e.TargetDate, *filter.Date) {
			continue
		}
		if filter.PendingType != "" && e.PendingType != filter.PendingType {
			continue
		}
		result = append(result, *m.withStaff(e))
	}
	return result, nil
}

func (m *mockAdjustmentRepo) ListPendingInRange(_ context.Context, from, to time.Time) ([]model.AdjustmentEntry, error) {
	var result []model.AdjustmentEntry
	for _, e := range m.entries {
		if !e.IsPending {
			continue
		}
		d := e.TargetDate.Format("2006-01-02")
		if d < from.Format("2006-01-02") || d > to.Format("2006-01-02") {
			continue
		}
		result = append(result, *m.withStaff(e))
	}
	return result, nil
}

func (m *mockAdjustmentRepo) UpdateDraft(_ context.Context, id int64, fields map[string]interface{}) (int64, error) {
	e, ok := m.entries[id]
	if !ok || e.IsDecided() {
		return 0, nil
	}
	applyAdjustmentFields(e, fields)
	return 1, nil
}

func (m *mockAdjustmentRepo) DeleteDraft(_ context.Context, id int64) (int64, error) {
	e, ok := m.entries[id]
	if !ok || e.IsDecided() {
		return 0, nil
	}
	delete(m.entries, e.AdjustmentID)
	return 1, nil
}

func (m *mockAdjustmentRepo) Decide(_ context.Context, id int64, fields map[string]interface{}) (int64, error) {
	e, ok := m.entries[id]
	if !ok || !e.IsPending || e.IsDecided() {
		return 0, nil
	}
	applyAdjustmentFields(e, fields)
	return 1, nil
}

func (m *mockAdjustmentRepo) Unapprove(_ context.Context, id int64, fields map[string]interface{}) (int64, error) {
	e, ok := m.entries[id]
	if !ok || e.ApprovedAt == nil || e.RejectedAt != nil {
		return 0, nil
	}
	applyAdjustmentFields(e, fields)
	return 1, nil
}

// applyAdjustmentFields 模拟 gorm Updates 的逐列赋值
func applyAdjustmentFields(e *model.AdjustmentEntry, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			e.Status = v.(string)
		case "memo":
			e.Memo = v.(string)
		case "target_date":
			e.TargetDate = v.(time.Time)
		case "start_at":
			e.StartAt = v.(time.Time)
		case "end_at":
			e.EndAt = v.(time.Time)
		case "approved_by":
			if v == nil {
				e.ApprovedBy = nil
			} else {
				s := v.(string)
				e.ApprovedBy = &s
			}
		case "approved_at":
			if v == nil {
				e.ApprovedAt = nil
			} else {
				t := v.(time.Time)
				e.ApprovedAt = &t
			}
		case "rejected_by":
			if v == nil {
				e.RejectedBy = nil
			} else {
				s := v.(string)
				e.RejectedBy = &s
			}
		case "rejected_at":
			if v == nil {
				e.RejectedAt = nil
			} else {
				t := v.(time.Time)
				e.RejectedAt = &t
			}
		case "rejection_reason":
			e.RejectionReason = v.(string)
		}
	}
}

// ── Mock ApprovalLogRepository ──

type mockApprovalLogRepo struct {
	logs   []model.PendingApprovalLog
	nextID int64
}

func newMockApprovalLogRepo() *mockApprovalLogRepo {
	return &mockApprovalLogRepo{nextID: 1}
}

func (m *mockApprovalLogRepo) Create(_ context.Context, log *model.PendingApprovalLog) error {
	log.LogID = m.nextID
	m.nextID++
	log.CreatedAt = time.Now().UTC()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockApprovalLogRepo) ListByAdjustment(_ context.Context, adjustmentID int64) ([]model.PendingApprovalLog, error) {
	var result []model.PendingApprovalLog
	for _, l := range m.logs {
		if l.AdjustmentID == adjustmentID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockApprovalLogRepo) DeleteByAdjustment(_ context.Context, adjustmentID int64) error {
	kept := m.logs[:0]
	for _, l := range m.logs {
		if l.AdjustmentID != adjustmentID {
			kept = append(kept, l)
		}
	}
	m.logs = kept
	return nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	records   []model.HistoricalSchedule
	createErr error // 非空时 BatchCreate 直接失败
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) BatchCreate(_ context.Context, records []model.HistoricalSchedule) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockHistoryRepo) ListByBatch(_ context.Context, batchID string) ([]model.HistoricalSchedule, error) {
	var result []model.HistoricalSchedule
	for _, r := range m.records {
		if r.BatchID == batchID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockHistoryRepo) CountByBatch(_ context.Context, batchID string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.BatchID == batchID {
			count++
		}
	}
	return count, nil
}

func (m *mockHistoryRepo) DeleteByBatch(_ context.Context, batchID string) (int64, error) {
	var deleted int64
	kept := m.records[:0]
	for _, r := range m.records {
		if r.BatchID == batchID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// ── Mock SnapshotLogRepository ──

type mockSnapshotLogRepo struct {
	logs   map[string]*model.SnapshotLog
	nextID int64
}

func newMockSnapshotLogRepo() *mockSnapshotLogRepo {
	return &mockSnapshotLogRepo{logs: make(map[string]*model.SnapshotLog), nextID: 1}
}

func (m *mockSnapshotLogRepo) Create(_ context.Context, log *model.SnapshotLog) error {
	log.LogID = m.nextID
	m.nextID++
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	stored := *log
	m.logs[log.BatchID] = &stored
	return nil
}

func (m *mockSnapshotLogRepo) GetByBatch(_ context.Context, batchID string) (*model.SnapshotLog, error) {
	if l, ok := m.logs[batchID]; ok {
		c := *l
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSnapshotLogRepo) UpdateStatus(_ context.Context, batchID string, fields map[string]interface{}) error {
	l, ok := m.logs[batchID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			l.Status = v.(string)
		case "record_count":
			l.RecordCount = v.(int)
		case "completed_at":
			t := v.(time.Time)
			l.CompletedAt = &t
		case "error_message":
			l.ErrorMessage = v.(string)
		}
	}
	return nil
}

func (m *mockSnapshotLogRepo) ListSince(_ context.Context, from time.Time) ([]model.SnapshotLog, error) {
	var result []model.SnapshotLog
	for _, l := range m.logs {
		if !l.TargetDate.Before(from) {
			result = append(result, *l)
		}
	}
	return result, nil
}

// ── Mock TxRunner ──

// mockTxRunner 直接在同一聚合上执行 fn。内存 mock 无法回滚，
// 测试只断言事务函数的返回值与可观测副作用。
type mockTxRunner struct {
	repo *repository.Repository
}

func (t *mockTxRunner) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(t.repo)
}

// ── 共用辅助 ──

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
