package service

import (
	"errors"
	"testing"
	"time"
)

// ── ID 编码测试 ──

func TestEncodeSyntheticID_Bands(t *testing.T) {
	date := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

	monthlyID := EncodeSyntheticID(LayerMonthly, 1, date, 0)
	if monthlyID < monthlyBandBase || monthlyID >= contractBandBase {
		t.Errorf("monthly合成ID应落在 [%d, %d)，实际=%d", monthlyBandBase, contractBandBase, monthlyID)
	}

	contractID := EncodeSyntheticID(LayerContract, 1, date, 0)
	if contractID < contractBandBase || contractID >= contractBandBase+idBandWidth {
		t.Errorf("contract合成ID应落在 [%d, %d)，实际=%d", contractBandBase, contractBandBase+idBandWidth, contractID)
	}
}

func TestEncodeSyntheticID_Deterministic(t *testing.T) {
	date := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

	a := EncodeSyntheticID(LayerContract, 42, date, 1)
	b := EncodeSyntheticID(LayerContract, 42, date, 1)
	if a != b {
		t.Errorf("相同复合键应产生相同ID: %d != %d", a, b)
	}

	// 任一键成分变化都应改变ID
	if a == EncodeSyntheticID(LayerContract, 43, date, 1) {
		t.Error("员工不同时ID不应相同")
	}
	if a == EncodeSyntheticID(LayerContract, 42, date.AddDate(0, 0, 1), 1) {
		t.Error("日期不同时ID不应相同")
	}
	if a == EncodeSyntheticID(LayerContract, 42, date, 2) {
		t.Error("序号不同时ID不应相同")
	}
}

func TestClassifyID(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		want    Layer
		wantErr bool
	}{
		{"adjustment区间下界", 0, LayerAdjustment, false},
		{"adjustment区间上界", monthlyBandBase - 1, LayerAdjustment, false},
		{"monthly区间下界", monthlyBandBase, LayerMonthly, false},
		{"contract区间下界", contractBandBase, LayerContract, false},
		{"contract区间上界", contractBandBase + idBandWidth - 1, LayerContract, false},
		{"越界", contractBandBase + idBandWidth, 0, true},
		{"负数", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyID(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownIDBand) {
					t.Errorf("期望 ErrUnknownIDBand，实际: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyID 应成功: %v", err)
			}
			if got != tt.want {
				t.Errorf("期望 %s，实际 %s", tt.want, got)
			}
		})
	}
}

func TestGateMutation(t *testing.T) {
	if err := GateMutation(12345); err != nil {
		t.Errorf("adjustment区间ID应放行: %v", err)
	}
	if err := GateMutation(monthlyBandBase + 7); !errors.Is(err, ErrMonthlyNotEditable) {
		t.Errorf("期望 ErrMonthlyNotEditable，实际: %v", err)
	}
	if err := GateMutation(contractBandBase + 7); !errors.Is(err, ErrContractNotEditable) {
		t.Errorf("期望 ErrContractNotEditable，实际: %v", err)
	}
	if err := GateMutation(-5); !errors.Is(err, ErrUnknownIDBand) {
		t.Errorf("期望 ErrUnknownIDBand，实际: %v", err)
	}
}

// ── 可移动性测试 ──

func TestIsMovable(t *testing.T) {
	tests := []struct {
		layer  Layer
		status string
		want   bool
	}{
		{LayerAdjustment, "online", false},
		{LayerMonthly, "online", false},
		{LayerContract, "online", false},
		{LayerAdjustment, "meeting", true},
		{LayerMonthly, "training", true},
		{LayerContract, "break", true},
		{LayerContract, "meeting", false},
	}
	for _, tt := range tests {
		if got := IsMovable(tt.layer, tt.status); got != tt.want {
			t.Errorf("IsMovable(%s, %s) 期望 %v，实际 %v", tt.layer, tt.status, tt.want, got)
		}
	}
}
