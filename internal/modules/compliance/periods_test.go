package compliance

import (
	"errors"
	"testing"
	"time"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

func TestCutPeriods_UnionCoversContract(t *testing.T) {
	ranges := [][2]time.Time{
		{day(2024, time.September, 1), day(2026, time.August, 31)},
		{day(2024, time.January, 31), day(2025, time.March, 15)},
		{day(2024, time.March, 10), day(2024, time.March, 20)},
		{day(2023, time.November, 30), day(2026, time.June, 30)},
	}
	periodTypes := []types.PeriodType{compliance.PeriodMonth, compliance.PeriodTrimester, compliance.PeriodSemester}
	for _, r := range ranges {
		for _, pt := range periodTypes {
			spans, err := CutPeriods(r[0], r[1], pt)
			if err != nil {
				t.Fatalf("CutPeriods(%s): %v", pt, err)
			}
			want := NumPeriods(WholeMonths(r[0], r[1]), pt.Months())
			if len(spans) != want {
				t.Fatalf("%s %s..%s: got %d periods, want %d", pt, r[0].Format("2006-01-02"), r[1].Format("2006-01-02"), len(spans), want)
			}
			if !spans[0].Start.Equal(r[0]) {
				t.Fatalf("first period must start on contract start, got %s", spans[0].Start)
			}
			if !spans[len(spans)-1].End.Equal(r[1]) {
				t.Fatalf("last period must end on contract end, got %s", spans[len(spans)-1].End)
			}
			for i := range spans {
				if !spans[i].End.After(spans[i].Start) {
					t.Fatalf("%s period %d is empty: %s..%s", pt, i, spans[i].Start, spans[i].End)
				}
				if spans[i].OrderIndex != i {
					t.Fatalf("unexpected order index %d at %d", spans[i].OrderIndex, i)
				}
				if i > 0 && !spans[i].Start.Equal(spans[i-1].End) {
					t.Fatalf("%s gap or overlap between %d and %d", pt, i-1, i)
				}
			}
		}
	}
}

func TestCutPeriods_SemesterExample(t *testing.T) {
	spans, err := CutPeriods(day(2024, time.September, 1), day(2026, time.August, 31), compliance.PeriodSemester)
	if err != nil {
		t.Fatalf("CutPeriods: %v", err)
	}
	if len(spans) != 4 {
		t.Fatalf("expected 4 semesters, got %d", len(spans))
	}
	if !spans[1].Start.Equal(day(2025, time.March, 1)) || spans[1].Label != "Semestre 2" {
		t.Fatalf("unexpected second semester: %+v", spans[1])
	}
}

func TestCutPeriods_EndDateIsInclusive(t *testing.T) {
	start, end := day(2024, time.September, 1), day(2026, time.August, 31)
	cases := []struct {
		pt        types.PeriodType
		want      int
		lastStart time.Time
	}{
		{compliance.PeriodMonth, 24, day(2026, time.August, 1)},
		{compliance.PeriodTrimester, 8, day(2026, time.June, 1)},
		{compliance.PeriodSemester, 4, day(2026, time.March, 1)},
	}
	for _, tc := range cases {
		spans, err := CutPeriods(start, end, tc.pt)
		if err != nil {
			t.Fatalf("CutPeriods(%s): %v", tc.pt, err)
		}
		if len(spans) != tc.want {
			t.Fatalf("%s: want %d periods, got %d", tc.pt, tc.want, len(spans))
		}
		last := spans[len(spans)-1]
		if !last.Start.Equal(tc.lastStart) || !last.End.Equal(end) {
			t.Fatalf("%s: last period %s..%s, want %s..%s", tc.pt,
				last.Start.Format("2006-01-02"), last.End.Format("2006-01-02"),
				tc.lastStart.Format("2006-01-02"), end.Format("2006-01-02"))
		}
	}

	months, _ := CutPeriods(start, end, compliance.PeriodMonth)
	for i, s := range months[:len(months)-1] {
		if !s.End.Equal(AddMonths(s.Start, 1)) {
			t.Fatalf("month %d spans %s..%s", i, s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
		}
	}
}

func TestCutPeriods_Rejects(t *testing.T) {
	if _, err := CutPeriods(day(2024, 1, 1), day(2024, 1, 1), compliance.PeriodMonth); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := CutPeriods(day(2024, 1, 1), day(2025, 1, 1), "WEEK"); !errors.Is(err, ErrInvalidPeriodType) {
		t.Fatalf("expected ErrInvalidPeriodType, got %v", err)
	}
}

func TestCurrentPeriodLabel(t *testing.T) {
	periods := []types.Period{
		{Label: "Semestre 1", StartDate: day(2024, 9, 1), EndDate: day(2025, 3, 1)},
		{Label: "Semestre 2", StartDate: day(2025, 3, 1), EndDate: day(2025, 8, 31)},
	}
	if got := CurrentPeriodLabel(periods, day(2025, 3, 1), "n/a"); got != "Semestre 2" {
		t.Fatalf("boundary date belongs to the later period, got %q", got)
	}
	if got := CurrentPeriodLabel(periods, day(2025, 8, 31), "n/a"); got != "Semestre 2" {
		t.Fatalf("contract end belongs to the last period, got %q", got)
	}
	if got := CurrentPeriodLabel(periods, day(2026, 1, 1), "n/a"); got != "n/a" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
