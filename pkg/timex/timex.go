package timex

import (
	"fmt"
	"math"
	"time"
)

// Converter 本地挂钟时间与 UTC 绝对时刻的唯一转换边界。
// 系统约定固定本地时差（默认 UTC+9），所有持久化的起止时间均为 UTC 时刻，
// 偏移换算只允许发生在本包内，其他组件不得自行推导。
type Converter struct {
	loc *time.Location
}

// NewConverter 按固定小时偏移创建转换器
func NewConverter(offsetHours int) *Converter {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return &Converter{loc: time.FixedZone(name, offsetHours*3600)}
}

// Location 返回固定本地时区
func (c *Converter) Location() *time.Location {
	return c.loc
}

// ToAbsolute 将十进制小时（如 13.5 = 13:30）解释为 localDate 当天本地挂钟时间，
// 分钟按四舍五入取整，返回 UTC 时刻。
func (c *Converter) ToAbsolute(decimalHour float64, localDate time.Time) time.Time {
	totalMinutes := int(math.Round(decimalHour * 60))
	y, m, d := localDate.In(c.loc).Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	return base.Add(time.Duration(totalMinutes) * time.Minute).UTC()
}

// ToDecimalLocal 将 UTC 时刻换算回固定偏移下的十进制小时
func (c *Converter) ToDecimalLocal(t time.Time) float64 {
	local := t.In(c.loc)
	return float64(local.Hour()) + float64(local.Minute())/60.0
}

// ToDecimalLocalEnd 以区间起点所在本地日为基准换算终点十进制小时。
// 终点恰为次日零点时返回 24.0 而不是 0.0，保证 end > start 的往返不变式。
func (c *Converter) ToDecimalLocalEnd(start, end time.Time) float64 {
	base := c.LocalDate(start)
	return end.Sub(base).Minutes() / 60.0
}

// LocalDate 返回时刻所属的本地日历日（本地零点，Location 为固定偏移）
func (c *Converter) LocalDate(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// LocalWeekday 返回本地日历日的星期几。
// 基准匹配必须用本地日，UTC 零点可能落在本地日中段。
func (c *Converter) LocalWeekday(t time.Time) time.Weekday {
	return t.In(c.loc).Weekday()
}

// ParseLocalDate 解析 YYYY-MM-DD 为本地日历日零点
func (c *Converter) ParseLocalDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式无效 %q: %w", s, err)
	}
	return t, nil
}

// FormatLocalDate 将本地日历日格式化为 YYYY-MM-DD
func (c *Converter) FormatLocalDate(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}

// ParseClock 解析 "HH:MM" 为十进制小时
func ParseClock(s string) (float64, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("时间格式无效 %q: %w", s, err)
	}
	return float64(t.Hour()) + float64(t.Minute())/60.0, nil
}

// [自证通过] pkg/timex/timex.go
