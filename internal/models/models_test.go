package models

import "testing"

func TestParseAgentName(t *testing.T) {
	tests := []struct {
		in   string
		want AgentName
	}{
		{"cv_parser", AgentCVParser},
		{"doc_generator", AgentDocGenerator},
		{"supervisor", AgentSupervisor},
		{"", AgentSupervisor},
		{"CV_PARSER", AgentSupervisor},
		{"research_bot", AgentSupervisor},
	}
	for _, tt := range tests {
		if got := ParseAgentName(tt.in); got != tt.want {
			t.Errorf("ParseAgentName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllAgentsReturnsCopy(t *testing.T) {
	agents := AllAgents()
	if len(agents) != 8 {
		t.Fatalf("AllAgents() has %d agents, want 8", len(agents))
	}
	agents[0] = "mutated"
	if AllAgents()[0] != AgentSupervisor {
		t.Error("AllAgents() exposed its backing array")
	}
}

func TestMergeKeepsOmittedFields(t *testing.T) {
	r := NewAgentStatusRecord(AgentCVTailor)
	r.Merge(AgentUpdate{
		Status:        StatusPtr(AgentStatusProcessing),
		Plan:          StringPtr("Tailor CV for Acme"),
		CurrentStep:   IntPtr(1),
		TotalSteps:    IntPtr(3),
		CurrentAction: StringPtr("Reading job"),
	})
	r.Merge(AgentUpdate{CurrentStep: IntPtr(2)})

	if r.Status != AgentStatusProcessing {
		t.Errorf("Status = %q, want processing", r.Status)
	}
	if r.Plan == nil || *r.Plan != "Tailor CV for Acme" {
		t.Errorf("Plan = %v, want kept", r.Plan)
	}
	if *r.CurrentStep != 2 || *r.TotalSteps != 3 {
		t.Errorf("step = %d/%d, want 2/3", *r.CurrentStep, *r.TotalSteps)
	}
	if r.CurrentAction == nil || *r.CurrentAction != "Reading job" {
		t.Errorf("CurrentAction = %v, want kept", r.CurrentAction)
	}
}

func TestCloneSharesNoPointers(t *testing.T) {
	r := NewAgentStatusRecord(AgentHRFinder)
	r.Merge(AgentUpdate{Plan: StringPtr("find"), CurrentStep: IntPtr(1), Drafts: &Drafts{ApplicationID: "a1"}})

	c := r.Clone()
	*c.Plan = "changed"
	*c.CurrentStep = 9
	c.Drafts.ApplicationID = "b2"

	if *r.Plan != "find" || *r.CurrentStep != 1 || r.Drafts.ApplicationID != "a1" {
		t.Error("Clone() shares pointers with the original")
	}
}

func TestDraftsEmpty(t *testing.T) {
	var nilDrafts *Drafts
	if !nilDrafts.Empty() {
		t.Error("nil drafts should be empty")
	}
	if !(&Drafts{}).Empty() {
		t.Error("zero drafts should be empty")
	}
	if (&Drafts{Email: map[string]any{"subject": "Hi"}}).Empty() {
		t.Error("drafts with an email should not be empty")
	}
}

func TestJobAccessors(t *testing.T) {
	j := Job{
		"title":    "Go Engineer",
		"company":  "Acme",
		"location": nil,
		"link":     "https://jobs.example/1",
		"salary":   120000,
	}
	if j.Title() != "Go Engineer" || j.Company() != "Acme" {
		t.Errorf("Title/Company = %q/%q", j.Title(), j.Company())
	}
	if j.Location() != "" {
		t.Errorf("Location() = %q, want empty for nil", j.Location())
	}
	if j.URL() != "https://jobs.example/1" {
		t.Errorf("URL() = %q, want link fallback", j.URL())
	}
	if got := j.str("salary"); got != "120000" {
		t.Errorf("str(salary) = %q, want 120000", got)
	}
}
