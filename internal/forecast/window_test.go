package forecast

import (
	"testing"
	"time"
)

func TestAddMonthsCrossesYear(t *testing.T) {
	got := YearMonth{Year: 2025, Month: 11}.AddMonths(3)
	if got != (YearMonth{Year: 2026, Month: 2}) {
		t.Fatalf("2025-11 + 3 个月应为 2026-02, 实际 %s", got)
	}

	got = YearMonth{Year: 2025, Month: 1}.AddMonths(-1)
	if got != (YearMonth{Year: 2024, Month: 12}) {
		t.Fatalf("2025-01 - 1 个月应为 2024-12, 实际 %s", got)
	}

	got = YearMonth{Year: 2025, Month: 6}.AddMonths(24)
	if got != (YearMonth{Year: 2027, Month: 6}) {
		t.Fatalf("加 24 个月应整年推进, 实际 %s", got)
	}
}

func TestYearMonthOf(t *testing.T) {
	ts := time.Date(2025, time.September, 17, 8, 30, 0, 0, time.UTC)
	if got := YearMonthOf(ts); got != (YearMonth{Year: 2025, Month: 9}) {
		t.Fatalf("应截断到日历月, 实际 %s", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	from := YearMonth{Year: 2025, Month: 11}
	to := YearMonth{Year: 2026, Month: 2}
	if got := MonthsBetween(from, to); got != 3 {
		t.Fatalf("2025-11 到 2026-02 应为 3 个月, 实际 %d", got)
	}
	if got := MonthsBetween(to, from); got != -3 {
		t.Fatalf("反向应为 -3, 实际 %d", got)
	}
	if got := MonthsBetween(from, from); got != 0 {
		t.Fatalf("同月应为 0, 实际 %d", got)
	}
}

func TestWindowInclusiveEndpoints(t *testing.T) {
	start, end := Window(YearMonth{Year: 2025, Month: 9}, 6)
	if start != (YearMonth{Year: 2025, Month: 9}) {
		t.Fatalf("窗口应包含当前月, 实际 %s", start)
	}
	if end != (YearMonth{Year: 2026, Month: 3}) {
		t.Fatalf("6 个月窗口终点应为 2026-03, 实际 %s", end)
	}
}

func TestMinIndexPicksLowest(t *testing.T) {
	points := []Point{
		{YearMonth{2025, 9}, 1400},
		{YearMonth{2025, 10}, 1350},
		{YearMonth{2025, 12}, 1200},
		{YearMonth{2026, 1}, 1300},
	}
	min, ok := MinIndex(points)
	if !ok {
		t.Fatal("非空序列应找到最小值")
	}
	if min.YearMonth != (YearMonth{2025, 12}) || min.Index != 1200 {
		t.Fatalf("最小值应为 2025-12/1200, 实际 %s/%d", min.YearMonth, min.Index)
	}
}

func TestMinIndexTieBreaksChronologically(t *testing.T) {
	// 乱序输入, 两个月份并列最低
	points := []Point{
		{YearMonth{2026, 2}, 1200},
		{YearMonth{2025, 10}, 1200},
		{YearMonth{2025, 9}, 1400},
	}
	min, ok := MinIndex(points)
	if !ok {
		t.Fatal("非空序列应找到最小值")
	}
	if min.YearMonth != (YearMonth{2025, 10}) {
		t.Fatalf("并列最低应取时间上最早的月份, 实际 %s", min.YearMonth)
	}
}

func TestMinIndexEmpty(t *testing.T) {
	if _, ok := MinIndex(nil); ok {
		t.Fatal("空序列不应返回最小值")
	}
}

func TestTrendsDirections(t *testing.T) {
	points := []Point{
		{YearMonth{2025, 9}, 1400},
		{YearMonth{2025, 10}, 1450},
		{YearMonth{2025, 11}, 1450},
		{YearMonth{2025, 12}, 1300},
	}
	trends := Trends(points)
	if len(trends) != 3 {
		t.Fatalf("4 个点应产出 3 段趋势, 实际 %d", len(trends))
	}
	want := []string{"rising", "falling", "falling"}
	for i, trend := range trends {
		if trend.Direction != want[i] {
			t.Fatalf("第 %d 段趋势期望 %s, 实际 %s", i, want[i], trend.Direction)
		}
	}
}

func TestTrendsTooShort(t *testing.T) {
	if got := Trends([]Point{{YearMonth{2025, 9}, 1400}}); got != nil {
		t.Fatalf("单点序列不应产出趋势, 实际 %v", got)
	}
}
