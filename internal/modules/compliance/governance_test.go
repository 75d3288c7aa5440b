package compliance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

func TestComputeKPIs_EmptyDefaults(t *testing.T) {
	k := ComputeKPIs(0, nil)
	if k.ActiveApprentices != 0 || k.J7CompletionRate != 0 || k.GlobalRiskScore != 100 || k.J45AlertCount != 0 {
		t.Fatalf("unexpected empty KPIs: %+v", k)
	}
	if k.Funnel != (Funnel{}) {
		t.Fatalf("expected zero funnel, got %+v", k.Funnel)
	}
	if rows := HealthOverview(nil); len(rows) != 0 {
		t.Fatalf("expected empty overview, got %v", rows)
	}
}

func TestComputeKPIs_Aggregates(t *testing.T) {
	facts := []ContractFacts{
		{ContractID: uuid.New(), ApprenticeName: "A", Health: HealthScore{Score: 100, Status: compliance.HealthGood}, HasAssessment: true, HasValidatedAssessment: true, TsfValidated: true},
		{ContractID: uuid.New(), ApprenticeName: "B", Health: HealthScore{Score: 10, Status: compliance.HealthDanger}, HasAssessment: true, J45Overdue: true},
		{ContractID: uuid.New(), ApprenticeName: "C", Health: HealthScore{Score: 70, Status: compliance.HealthWarning}},
	}
	k := ComputeKPIs(4, facts)
	if k.J7CompletionRate != 25 {
		t.Fatalf("expected 25%% J+7 rate, got %v", k.J7CompletionRate)
	}
	if k.GlobalRiskScore != 60 {
		t.Fatalf("expected mean 60, got %v", k.GlobalRiskScore)
	}
	if k.J45AlertCount != 1 {
		t.Fatalf("expected 1 J+45 alert, got %d", k.J45AlertCount)
	}
	if k.Funnel != (Funnel{Contracts: 3, Assessments: 2, Tsfs: 1}) {
		t.Fatalf("unexpected funnel %+v", k.Funnel)
	}

	rows := HealthOverview(facts)
	if rows[0].ApprenticeName != "B" || rows[1].ApprenticeName != "C" || rows[2].ApprenticeName != "A" {
		t.Fatalf("overview must be worst first: %+v", rows)
	}
	if rows[2].Reasons == nil {
		t.Fatalf("reasons must never be nil")
	}
}

func TestWriteNonCompliantExport(t *testing.T) {
	rows := []ContractHealth{
		{ApprenticeName: "Durand Léa", Score: 10, Status: compliance.HealthDanger, Reasons: []string{"no activity recorded", "2 overdue milestone(s)"}},
		{ApprenticeName: "Martin Hugo", Score: 90, Status: compliance.HealthGood, Reasons: []string{}},
		{ApprenticeName: "Petit Zoé", Score: 60, Status: compliance.HealthWarning, Reasons: []string{"unjustified absence rate 15.0%"}},
	}
	var buf bytes.Buffer
	if err := WriteNonCompliantExport(&buf, rows); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "apprenticeName;score;status;reasons" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "Durand Léa;10;DANGER;no activity recorded, 2 overdue milestone(s)" {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if strings.Contains(buf.String(), "Martin") {
		t.Fatalf("GOOD contracts must not be exported")
	}
}

func TestWriteNonCompliantExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNonCompliantExport(&buf, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "apprenticeName;score;status;reasons" {
		t.Fatalf("expected header only, got %q", buf.String())
	}
}
