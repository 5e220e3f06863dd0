package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDate(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		got := NextDate(date(2024, time.January, 1), IntervalDaily)
		if want := date(2024, time.January, 2); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		got := NextDate(date(2024, time.March, 8), IntervalWeekly)
		if want := date(2024, time.March, 15); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly", func(t *testing.T) {
		got := NextDate(date(2024, time.January, 1), IntervalMonthly)
		if want := date(2024, time.February, 1); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly_clamps_to_short_month", func(t *testing.T) {
		// 2024 is a leap year.
		got := NextDate(date(2024, time.January, 31), IntervalMonthly)
		if want := date(2024, time.February, 29); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}

		got = NextDate(date(2023, time.January, 31), IntervalMonthly)
		if want := date(2023, time.February, 28); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly_across_year_boundary", func(t *testing.T) {
		got := NextDate(date(2024, time.December, 15), IntervalMonthly)
		if want := date(2025, time.January, 15); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("yearly", func(t *testing.T) {
		got := NextDate(date(2024, time.June, 10), IntervalYearly)
		if want := date(2025, time.June, 10); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("yearly_clamps_leap_day", func(t *testing.T) {
		got := NextDate(date(2024, time.February, 29), IntervalYearly)
		if want := date(2025, time.February, 28); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("invalid_interval_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for invalid interval")
			}
		}()
		NextDate(date(2024, time.January, 1), Interval("fortnightly"))
	})
}

func TestParseInterval(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly", "yearly"} {
		if _, err := ParseInterval(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}

	if _, err := ParseInterval("hourly"); err == nil {
		t.Error("expected error for unsupported interval")
	}
	if _, err := ParseInterval(""); err == nil {
		t.Error("expected error for empty interval")
	}
}

func TestScheduleAdvance(t *testing.T) {
	t.Run("open_ended", func(t *testing.T) {
		s := Schedule{Interval: IntervalMonthly, Next: date(2024, time.January, 1)}

		next, terminated := s.Advance(date(2024, time.January, 1))
		if terminated {
			t.Fatal("open-ended schedule must not terminate")
		}
		if want := date(2024, time.February, 1); !next.Next.Equal(want) {
			t.Errorf("expected next occurrence %v, got %v", want, next.Next)
		}
		if next.Interval != IntervalMonthly {
			t.Errorf("expected interval preserved, got %s", next.Interval)
		}
	})

	t.Run("terminates_past_end_date", func(t *testing.T) {
		end := date(2024, time.March, 10)
		s := Schedule{Interval: IntervalWeekly, Next: date(2024, time.March, 1), End: &end}

		next, terminated := s.Advance(date(2024, time.March, 8))
		if !terminated {
			t.Fatalf("expected termination, got next occurrence %v", next.Next)
		}
	})

	t.Run("continues_when_next_on_end_date", func(t *testing.T) {
		end := date(2024, time.March, 15)
		s := Schedule{Interval: IntervalWeekly, Next: date(2024, time.March, 1), End: &end}

		next, terminated := s.Advance(date(2024, time.March, 8))
		if terminated {
			t.Fatal("next occurrence equal to end date must still run")
		}
		if want := date(2024, time.March, 15); !next.Next.Equal(want) {
			t.Errorf("expected %v, got %v", want, next.Next)
		}
	})
}

func TestMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	got := Midnight(time.Date(2024, time.July, 4, 18, 30, 12, 99, loc))
	want := time.Date(2024, time.July, 4, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.July, 4, 23, 59, 59, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same calendar day")
	}
	if SameDay(a, a.AddDate(0, 0, 1)) {
		t.Error("expected different calendar days")
	}
}

func TestFrequency(t *testing.T) {
	if !FrequencyWeekly.Valid() {
		t.Error("weekly should be valid")
	}
	if Frequency("yearly").Valid() {
		t.Error("yearly is not a contribution bucket")
	}
	if got := FrequencyMonthly.Label(); got != "Monthly" {
		t.Errorf("expected Monthly, got %s", got)
	}
}
