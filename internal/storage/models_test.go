package storage

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from QuotationStatus
		to   QuotationStatus
		want bool
	}{
		{StatusRawSheet, StatusDetailInfo, true},
		{StatusDetailInfo, StatusPredictionSheet, true},
		{StatusRawSheet, StatusPredictionSheet, false},
		{StatusDetailInfo, StatusRawSheet, false},
		{StatusPredictionSheet, StatusDetailInfo, false},
		{StatusPredictionSheet, StatusPredictionSheet, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s 期望 %v, 实际 %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestLineageLockKeyStable(t *testing.T) {
	a := LineageLockKey("lineage-1")
	b := LineageLockKey("lineage-1")
	if a != b {
		t.Fatalf("相同 lineage 应得到相同锁键: %d vs %d", a, b)
	}
	if LineageLockKey("lineage-2") == a {
		t.Fatal("不同 lineage 的锁键不应相同")
	}
}
