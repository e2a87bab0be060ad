// Package models contains shared data structures used across the application.
package models

// AgentName identifies a participant in the orchestrated workflow.
type AgentName string

// Known agents. The set is closed; anything else on the wire is treated as the supervisor.
const (
	AgentSupervisor    AgentName = "supervisor"
	AgentCVParser      AgentName = "cv_parser"
	AgentJobHunter     AgentName = "job_hunter"
	AgentCVTailor      AgentName = "cv_tailor"
	AgentHRFinder      AgentName = "hr_finder"
	AgentEmailSender   AgentName = "email_sender"
	AgentInterviewPrep AgentName = "interview_prep"
	AgentDocGenerator  AgentName = "doc_generator"
)

var allAgents = []AgentName{
	AgentSupervisor,
	AgentCVParser,
	AgentJobHunter,
	AgentCVTailor,
	AgentHRFinder,
	AgentEmailSender,
	AgentInterviewPrep,
	AgentDocGenerator,
}

// AllAgents returns every known agent in display order.
func AllAgents() []AgentName {
	out := make([]AgentName, len(allAgents))
	copy(out, allAgents)
	return out
}

// ParseAgentName maps a wire name to a known agent, defaulting to the supervisor.
func ParseAgentName(s string) AgentName {
	for _, a := range allAgents {
		if string(a) == s {
			return a
		}
	}
	return AgentSupervisor
}

// IsKnownAgent reports whether s names one of the known agents.
func IsKnownAgent(s string) bool {
	for _, a := range allAgents {
		if string(a) == s {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label, e.g. "CV Parser".
func (a AgentName) DisplayName() string {
	switch a {
	case AgentSupervisor:
		return "Supervisor"
	case AgentCVParser:
		return "CV Parser"
	case AgentJobHunter:
		return "Job Hunter"
	case AgentCVTailor:
		return "CV Tailor"
	case AgentHRFinder:
		return "HR Finder"
	case AgentEmailSender:
		return "Email Sender"
	case AgentInterviewPrep:
		return "Interview Prep"
	case AgentDocGenerator:
		return "Doc Generator"
	}
	return string(a)
}

// AgentStatus is the coarse lifecycle state of an agent.
type AgentStatus string

const (
	AgentStatusIdle       AgentStatus = "idle"
	AgentStatusProcessing AgentStatus = "processing"
	AgentStatusCompleted  AgentStatus = "completed"
	AgentStatusError      AgentStatus = "error"
	AgentStatusWaiting    AgentStatus = "waiting"
)

// ParseAgentStatus validates a wire status value.
func ParseAgentStatus(s string) (AgentStatus, bool) {
	switch st := AgentStatus(s); st {
	case AgentStatusIdle, AgentStatusProcessing, AgentStatusCompleted, AgentStatusError, AgentStatusWaiting:
		return st, true
	}
	return "", false
}

// Drafts holds documents an agent prepared and is waiting on the operator to approve.
// Contents are opaque JSON values as received from the server.
type Drafts struct {
	CV            any    `yaml:"cv,omitempty" json:"cv,omitempty"`
	CoverLetter   any    `yaml:"cover_letter,omitempty" json:"cover_letter,omitempty"`
	Email         any    `yaml:"email,omitempty" json:"email,omitempty"`
	ApplicationID string `yaml:"application_id,omitempty" json:"application_id,omitempty"`
}

// Empty reports whether no draft is present.
func (d *Drafts) Empty() bool {
	return d == nil || (d.CV == nil && d.CoverLetter == nil && d.Email == nil && d.ApplicationID == "")
}

// AgentStatusRecord is the current observable state of one agent.
// Optional fields are nil until an event sets them.
type AgentStatusRecord struct {
	Name          AgentName   `yaml:"name"`
	Status        AgentStatus `yaml:"status"`
	Plan          *string     `yaml:"plan,omitempty"`
	CurrentStep   *int        `yaml:"current_step,omitempty"`
	TotalSteps    *int        `yaml:"total_steps,omitempty"`
	CurrentAction *string     `yaml:"current_action,omitempty"`
	Drafts        *Drafts     `yaml:"drafts,omitempty"`
}

// NewAgentStatusRecord returns the default record for an agent.
func NewAgentStatusRecord(name AgentName) AgentStatusRecord {
	return AgentStatusRecord{Name: name, Status: AgentStatusIdle}
}

// AgentUpdate is a partial AgentStatusRecord. Nil fields are left untouched by Merge.
type AgentUpdate struct {
	Status        *AgentStatus
	Plan          *string
	CurrentStep   *int
	TotalSteps    *int
	CurrentAction *string
	Drafts        *Drafts
}

// Merge shallow-merges u into r. Fields absent from u keep their previous values.
func (r *AgentStatusRecord) Merge(u AgentUpdate) {
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Plan != nil {
		r.Plan = u.Plan
	}
	if u.CurrentStep != nil {
		r.CurrentStep = u.CurrentStep
	}
	if u.TotalSteps != nil {
		r.TotalSteps = u.TotalSteps
	}
	if u.CurrentAction != nil {
		r.CurrentAction = u.CurrentAction
	}
	if u.Drafts != nil {
		r.Drafts = u.Drafts
	}
}

// Clone returns a copy that shares no pointers with r.
func (r AgentStatusRecord) Clone() AgentStatusRecord {
	out := r
	out.Plan = cloneString(r.Plan)
	out.CurrentAction = cloneString(r.CurrentAction)
	out.CurrentStep = cloneInt(r.CurrentStep)
	out.TotalSteps = cloneInt(r.TotalSteps)
	if r.Drafts != nil {
		d := *r.Drafts
		out.Drafts = &d
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// StatusPtr returns a pointer to s.
func StatusPtr(s AgentStatus) *AgentStatus { return &s }
