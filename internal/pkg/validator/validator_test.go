package validator

import "testing"

type reportPayload struct {
	Reason  string `json:"reason" validate:"required,report_reason"`
	Details string `json:"details" validate:"max=10"`
}

type decisionPayload struct {
	Decision string `json:"decision" validate:"required,appeal_decision"`
}

func TestValidate_ReportReason(t *testing.T) {
	if errs := Validate(&reportPayload{Reason: "spam"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Validate(&reportPayload{Reason: "bogus", Details: "way too long text"})
	if errs == nil {
		t.Fatal("expected errors")
	}
	if _, ok := errs["reason"]; !ok {
		t.Fatalf("expected reason error keyed by json name, got %v", errs)
	}
	if _, ok := errs["details"]; !ok {
		t.Fatalf("expected details error, got %v", errs)
	}
}

func TestValidate_AppealDecision(t *testing.T) {
	for _, d := range []string{"approved", "rejected", "revision_requested"} {
		if errs := Validate(&decisionPayload{Decision: d}); errs != nil {
			t.Fatalf("decision %q: unexpected errors %v", d, errs)
		}
	}

	if errs := Validate(&decisionPayload{Decision: "pending"}); errs == nil {
		t.Fatal("expected pending to be rejected as a decision")
	}
}

type triageQuery struct {
	Sort     string `json:"sort" validate:"report_sort"`
	Severity string `json:"severity" validate:"severity_filter"`
}

func TestValidate_TriageQuery(t *testing.T) {
	if errs := Validate(&triageQuery{}); errs != nil {
		t.Fatalf("expected empty query to be valid, got %v", errs)
	}
	if errs := Validate(&triageQuery{Sort: "recent", Severity: "all"}); errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}

	errs := Validate(&triageQuery{Sort: "oldest", Severity: "severe"})
	if len(errs) != 2 {
		t.Fatalf("expected sort and severity errors, got %v", errs)
	}
}
