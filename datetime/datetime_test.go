package datetime

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year      int
		month     time.Month
		wantFirst string
		wantLast  string
	}{
		{2024, time.February, "2024-02-01", "2024-02-29"}, // leap year
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2025, time.December, "2025-12-01", "2025-12-31"},
		{2025, time.April, "2025-04-01", "2025-04-30"},
	}

	for _, tc := range cases {
		first, last := MonthBounds(tc.year, tc.month)
		if got := first.Format(LayoutDate); got != tc.wantFirst {
			t.Errorf("MonthBounds(%d,%v) first=%s; want %s", tc.year, tc.month, got, tc.wantFirst)
		}
		if got := last.Format(LayoutDate); got != tc.wantLast {
			t.Errorf("MonthBounds(%d,%v) last=%s; want %s", tc.year, tc.month, got, tc.wantLast)
		}
	}
}

func TestDateRange(t *testing.T) {
	start := time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

	dates := DateRange(start, end)
	if len(dates) != 6 {
		t.Fatalf("len=%d; want 6", len(dates))
	}
	if !dates[0].Equal(start) {
		t.Errorf("first=%v; want %v", dates[0], start)
	}
	if !dates[len(dates)-1].Equal(end) {
		t.Errorf("last=%v; want %v", dates[len(dates)-1], end)
	}
	for i := 1; i < len(dates); i++ {
		if got := dates[i].Sub(dates[i-1]); got != 24*time.Hour {
			t.Errorf("step %d=%v; want 24h", i, got)
		}
	}
}

func TestDateRange_SingleDay(t *testing.T) {
	day := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	dates := DateRange(day, day)
	if len(dates) != 1 || !dates[0].Equal(day) {
		t.Errorf("got %v; want exactly [%v]", dates, day)
	}
}

func TestDateRange_StartAfterEnd(t *testing.T) {
	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	dates := DateRange(start, start.AddDate(0, 0, -1))
	if len(dates) != 0 {
		t.Errorf("got %d dates; want empty range", len(dates))
	}
}

func TestDateRange_IgnoresClock(t *testing.T) {
	start := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 3, 0, 1, 0, 0, time.UTC)
	dates := DateRange(start, end)
	if len(dates) != 3 {
		t.Errorf("len=%d; want 3", len(dates))
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-08-23")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2025, time.August, 23, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v; want %v", got, want)
	}

	if _, err := ParseDate("23/08/2025"); err == nil {
		t.Error("expected error for wrong format")
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("14:30")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("got %02d:%02d; want 14:30", got.Hour(), got.Minute())
	}

	if _, err := ParseClock("2pm"); err == nil {
		t.Error("expected error for wrong format")
	}
}

func TestParseAny(t *testing.T) {
	got, err := ParseAny("2025-08-23 10:00:00", LayoutDate, time.DateTime)
	if err != nil {
		t.Fatalf("ParseAny: %v", err)
	}
	if got.Hour() != 10 {
		t.Errorf("hour=%d; want 10", got.Hour())
	}

	if _, err := ParseAny("not a date", LayoutDate, time.RFC3339); err == nil {
		t.Error("expected error when no layout matches")
	}
}

func TestMakeAware(t *testing.T) {
	naive := time.Date(2025, time.August, 23, 12, 0, 0, 0, time.UTC)

	aware, err := MakeAware(naive, "Asia/Kathmandu")
	if err != nil {
		t.Fatalf("MakeAware: %v", err)
	}
	if aware.Hour() != 12 {
		t.Errorf("wall clock hour=%d; want 12 (preserved)", aware.Hour())
	}
	if aware.Location().String() != "Asia/Kathmandu" {
		t.Errorf("location=%v; want Asia/Kathmandu", aware.Location())
	}

	if _, err := MakeAware(naive, "Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestConvert(t *testing.T) {
	// 12:00 UTC is 17:45 in Kathmandu (+05:45).
	in := time.Date(2025, time.August, 23, 12, 0, 0, 0, time.UTC)

	got, err := Convert(in, "UTC", "Asia/Kathmandu")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.Hour() != 17 || got.Minute() != 45 {
		t.Errorf("got %02d:%02d; want 17:45", got.Hour(), got.Minute())
	}
	if !got.Equal(in) {
		t.Error("conversion must preserve the instant")
	}

	if _, err := Convert(in, "UTC", "Bad/Zone"); err == nil {
		t.Error("expected error for unknown target timezone")
	}
	if _, err := Convert(in, "Bad/Zone", "UTC"); err == nil {
		t.Error("expected error for unknown source timezone")
	}
}
