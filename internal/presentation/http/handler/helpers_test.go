package handler

import (
	"testing"
	"time"
)

func TestDayRangeIncludesEndDate(t *testing.T) {
	from, to, err := dayRange("2026-05-01", "2026-05-01")
	if err != nil {
		t.Fatalf("dayRange: %v", err)
	}
	if from == nil || to == nil {
		t.Fatal("expected both bounds")
	}
	want := time.Date(2026, 5, 2, 0, 0, 0, 0, time.Local)
	if !to.Equal(want) {
		t.Fatalf("end bound = %v, want %v", to, want)
	}
	lastMinute := time.Date(2026, 5, 1, 23, 59, 0, 0, time.Local)
	if lastMinute.Before(*from) || !lastMinute.Before(*to) {
		t.Fatalf("%v should fall inside [%v, %v)", lastMinute, from, to)
	}
}

func TestDayRangeRejectsBadDates(t *testing.T) {
	if _, _, err := dayRange("2026/05/01", ""); err == nil {
		t.Fatal("expected start_date error")
	}
	if _, _, err := dayRange("", "tomorrow"); err == nil {
		t.Fatal("expected end_date error")
	}
	from, to, err := dayRange("", "")
	if err != nil || from != nil || to != nil {
		t.Fatalf("empty range = %v %v %v", from, to, err)
	}
}
