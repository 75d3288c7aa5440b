package compliance

import (
	"errors"
	"fmt"
	"time"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

var (
	ErrInvalidDateRange  = errors.New("contract end date must be after start date")
	ErrInvalidPeriodType = errors.New("period type must be MONTH, TRIMESTER or SEMESTER")
)

// PeriodSpan is a generated period before persistence. Start is inclusive;
// End is exclusive except for the final span, which ends on the contract end.
type PeriodSpan struct {
	Label      string
	OrderIndex int
	Start      time.Time
	End        time.Time
}

// CutPeriods slices [start, end] into contiguous spans of the period type's
// length. The last span is clamped to end.
func CutPeriods(start, end time.Time, pt types.PeriodType) ([]PeriodSpan, error) {
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	pm := pt.Months()
	if pm == 0 {
		return nil, ErrInvalidPeriodType
	}
	n := NumPeriods(WholeMonths(start, end), pm)
	out := make([]PeriodSpan, 0, n)
	for i := 0; i < n; i++ {
		ps := AddMonths(start, i*pm)
		pe := AddMonths(start, (i+1)*pm)
		if i == n-1 || pe.After(end) {
			pe = end
		}
		out = append(out, PeriodSpan{
			Label:      PeriodLabel(pt, i),
			OrderIndex: i,
			Start:      ps,
			End:        pe,
		})
	}
	return out, nil
}

// PeriodLabel is the French display label of the i-th period (0-based).
func PeriodLabel(pt types.PeriodType, i int) string {
	switch pt {
	case compliance.PeriodMonth:
		return fmt.Sprintf("Mois %d", i+1)
	case compliance.PeriodTrimester:
		return fmt.Sprintf("Trimestre %d", i+1)
	case compliance.PeriodSemester:
		return fmt.Sprintf("Semestre %d", i+1)
	default:
		return fmt.Sprintf("Période %d", i+1)
	}
}

// CurrentPeriodLabel returns the label of the period containing at, or
// fallback when none does.
func CurrentPeriodLabel(periods []types.Period, at time.Time, fallback string) string {
	for i, p := range periods {
		last := i == len(periods)-1
		if at.Before(p.StartDate) {
			continue
		}
		if at.Before(p.EndDate) || (last && !at.After(p.EndDate)) {
			return p.Label
		}
	}
	return fallback
}
