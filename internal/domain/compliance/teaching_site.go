package compliance

import (
	"fmt"
	"strings"
)

// TeachingSite records where a competency is taught.
//
// Transitions for Next:
//
//	NONE -> CFA -> ENTERPRISE -> MIXED -> NONE
type TeachingSite string

const (
	TeachingSiteNone       TeachingSite = "NONE"
	TeachingSiteCFA        TeachingSite = "CFA"
	TeachingSiteEnterprise TeachingSite = "ENTERPRISE"
	TeachingSiteMixed      TeachingSite = "MIXED"
)

var teachingSiteNext = map[TeachingSite]TeachingSite{
	TeachingSiteNone:       TeachingSiteCFA,
	TeachingSiteCFA:        TeachingSiteEnterprise,
	TeachingSiteEnterprise: TeachingSiteMixed,
	TeachingSiteMixed:      TeachingSiteNone,
}

// Next returns the following site in the cycle. Unknown or empty values
// are treated as NONE.
func (s TeachingSite) Next() TeachingSite {
	if next, ok := teachingSiteNext[s]; ok {
		return next
	}
	return TeachingSiteCFA
}

func (s TeachingSite) Valid() bool {
	_, ok := teachingSiteNext[s]
	return ok
}

func ParseTeachingSite(raw string) (TeachingSite, error) {
	s := TeachingSite(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return TeachingSiteNone, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("unknown teaching site %q", raw)
	}
	return s, nil
}
