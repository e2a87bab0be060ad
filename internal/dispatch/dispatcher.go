// Package dispatch maps decoded channel envelopes onto state store mutations.
package dispatch

import (
	"fmt"
	"log"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

// Event types.
const (
	TypeAgentStarted      = "agent_started"
	TypeAgentProgress     = "agent_progress"
	TypeLogEntry          = "log_entry"
	TypeAgentCompleted    = "agent_completed"
	TypeAgentError        = "agent_error"
	TypeWorkflowUpdate    = "workflow_update"
	TypeAgentUpdate       = "agent_update"
	TypeApprovalRequested = "approval_requested"

	TypeJobStreamStart       = "job_stream_start"
	TypeJobStreamSourceStart = "job_stream_source_start"
	TypeJobStreamBatch       = "job_stream_batch"
	TypeJobStreamDedupStart  = "job_stream_dedup_start"
	TypeJobStreamDedupDone   = "job_stream_dedup_done"
	TypeJobStreamUniqueJobs  = "job_stream_unique_jobs"
	TypeJobStreamHRStatus    = "job_stream_hr_status"
)

const (
	actionStarting  = "Starting..."
	actionAwaiting  = "Awaiting your review..."
	titleStarted    = "Agent Started"
	titleCompleted  = "Completed Successfully"
	titleError      = "Execution Error"
	titleApproval   = "Approval Required"
	titleWorking    = "Working"
	summaryFallback = "Task finished"
)

// Dispatcher applies envelopes to a store. It must be driven from a single goroutine.
type Dispatcher struct {
	store  *state.Store
	policy TextPolicy

	handlers map[string]func(channel.Envelope)
}

// New creates a dispatcher writing to store.
func New(store *state.Store, policy TextPolicy) *Dispatcher {
	d := &Dispatcher{store: store, policy: policy}
	d.handlers = map[string]func(channel.Envelope){
		channel.TypeConnected: func(channel.Envelope) { d.store.SetConnected(true) },
		channel.TypePong:      func(channel.Envelope) {},

		TypeAgentStarted:      d.agentStarted,
		TypeAgentProgress:     d.agentProgress,
		TypeLogEntry:          d.logEntry,
		TypeAgentCompleted:    d.agentCompleted,
		TypeAgentError:        d.agentError,
		TypeWorkflowUpdate:    d.workflowUpdate,
		TypeAgentUpdate:       d.agentUpdate,
		TypeApprovalRequested: d.approvalRequested,

		TypeJobStreamStart:       func(channel.Envelope) { d.store.JobStreamStart() },
		TypeJobStreamSourceStart: d.jobStreamSourceStart,
		TypeJobStreamBatch:       d.jobStreamBatch,
		TypeJobStreamDedupStart:  func(channel.Envelope) { d.store.JobStreamDedupStart() },
		TypeJobStreamDedupDone:   d.jobStreamDedupDone,
		TypeJobStreamUniqueJobs:  d.jobStreamUniqueJobs,
		TypeJobStreamHRStatus:    d.jobStreamHRStatus,
	}
	return d
}

// Dispatch applies one envelope. Unknown types are ignored; the return value
// reports whether the type was recognized.
func (d *Dispatcher) Dispatch(env channel.Envelope) bool {
	h, ok := d.handlers[env.Type]
	if !ok {
		log.Printf("[dispatch] Ignoring unknown event type %q", env.Type)
		return false
	}
	h(env)
	return true
}

// ChannelState reflects a channel transition onto the session flag.
// Only the connected event sets it; losing the transport clears it.
func (d *Dispatcher) ChannelState(s channel.State) {
	switch s {
	case channel.Closed, channel.Idle:
		d.store.SetConnected(false)
	}
}

func agentOf(env channel.Envelope) models.AgentName {
	return models.ParseAgentName(env.Str("agent_name"))
}

func (d *Dispatcher) agentStarted(env channel.Envelope) {
	agent := agentOf(env)
	plan := env.Str("plan")

	update := models.AgentUpdate{
		Status:        models.StatusPtr(models.AgentStatusProcessing),
		CurrentStep:   models.IntPtr(0),
		CurrentAction: models.StringPtr(actionStarting),
	}
	if env.Has("plan") {
		update.Plan = models.StringPtr(plan)
	}
	d.store.SetStatus(agent, update)
	d.store.SetActiveAgent(agent)

	desc := plan
	if desc == "" {
		desc = "Initializing " + agent.DisplayName()
	}
	d.store.AppendLog(models.LogInput{
		Icon:        AgentIcon(agent),
		Agent:       agent,
		Title:       titleStarted,
		Description: Shorten(desc, d.policy.Plan),
		Thought:     thought(plan, d.policy.Plan),
		Status:      models.LogStatusRunning,
	})
}

func (d *Dispatcher) agentProgress(env channel.Envelope) {
	agent := agentOf(env)
	step, hasStep := env.Int("step")
	total, hasTotal := env.Int("total_steps")
	action := env.Str("action")
	details := env.Str("details")

	var update models.AgentUpdate
	if hasStep {
		update.CurrentStep = models.IntPtr(step)
	}
	if hasTotal {
		update.TotalSteps = models.IntPtr(total)
	}
	if action != "" {
		update.CurrentAction = models.StringPtr(action)
	}
	d.store.SetStatus(agent, update)

	title := action
	if title == "" {
		title = titleWorking
	}
	desc := details
	if desc == "" {
		switch {
		case hasStep && hasTotal:
			desc = fmt.Sprintf("Step %d of %d", step, total)
		case hasStep:
			desc = fmt.Sprintf("Step %d", step)
		default:
			desc = action
		}
	}
	d.store.AppendLog(models.LogInput{
		Icon:        AgentIcon(agent),
		Agent:       agent,
		Title:       title,
		Description: Shorten(desc, d.policy.Progress),
		Thought:     thought(details, d.policy.Progress),
		Status:      models.LogStatusRunning,
	})
}

func (d *Dispatcher) logEntry(env channel.Envelope) {
	agent := models.ParseAgentName(env.Str("agent"))
	status, ok := models.ParseLogStatus(env.Str("status"))
	if !ok {
		status = models.LogStatusDone
	}
	icon := env.Str("icon")
	if icon == "" {
		icon = AgentIcon(agent)
	}
	desc := env.Str("description")
	th := env.Str("thought")
	if th == "" {
		th = thought(desc, d.policy.Log)
	}
	d.store.AppendLog(models.LogInput{
		Icon:        icon,
		Agent:       agent,
		Title:       env.Str("title"),
		Description: desc,
		Thought:     th,
		Status:      status,
		Duration:    durationField(env, "duration"),
		Tokens:      tokensField(env, "tokens"),
	})
}

func (d *Dispatcher) agentCompleted(env channel.Envelope) {
	agent := agentOf(env)
	d.store.SetStatus(agent, models.AgentUpdate{Status: models.StatusPtr(models.AgentStatusCompleted)})
	d.store.MarkCompleted(agent)
	d.store.PatchLastLogForAgent(agent, models.LogStatusDone)

	summary := env.Str("result_summary")
	if summary == "" {
		summary = summaryFallback
	}
	d.store.AppendLog(models.LogInput{
		Icon:        IconCompleted,
		Agent:       agent,
		Title:       titleCompleted,
		Description: summary,
		Status:      models.LogStatusDone,
		Duration:    durationField(env, "duration"),
		Tokens:      tokensField(env, "tokens"),
	})
}

func (d *Dispatcher) agentError(env channel.Envelope) {
	agent := agentOf(env)
	msg := env.Str("error")
	if msg == "" {
		msg = "Unknown error"
	}
	d.store.SetStatus(agent, models.AgentUpdate{
		Status:        models.StatusPtr(models.AgentStatusError),
		CurrentAction: models.StringPtr(msg),
	})
	d.store.PatchLastLogForAgent(agent, models.LogStatusError)
	d.store.AppendLog(models.LogInput{
		Icon:        IconError,
		Agent:       agent,
		Title:       titleError,
		Description: Shorten(msg, d.policy.Error),
		Thought:     thought(msg, d.policy.Error),
		Status:      models.LogStatusError,
	})
}

func (d *Dispatcher) workflowUpdate(env channel.Envelope) {
	for _, name := range env.Strings("completed_nodes") {
		d.store.MarkCompleted(models.ParseAgentName(name))
	}
	if env.Has("active_node") {
		d.store.SetActiveAgent(models.ParseAgentName(env.Str("active_node")))
	}
}

func (d *Dispatcher) agentUpdate(env channel.Envelope) {
	var update models.AgentUpdate
	if st, ok := models.ParseAgentStatus(env.Str("status")); ok {
		update.Status = &st
	}
	if env.Has("current_action") {
		update.CurrentAction = models.StringPtr(env.Str("current_action"))
	}
	if env.Has("plan") {
		update.Plan = models.StringPtr(env.Str("plan"))
	}
	d.store.SetStatus(agentOf(env), update)
}

func (d *Dispatcher) approvalRequested(env channel.Envelope) {
	agent := agentOf(env)
	drafts := &models.Drafts{
		CV:            env.Value("cv"),
		CoverLetter:   env.Value("cover_letter"),
		Email:         env.Value("email"),
		ApplicationID: env.Str("application_id"),
	}
	d.store.SetStatus(agent, models.AgentUpdate{
		Status:        models.StatusPtr(models.AgentStatusWaiting),
		CurrentAction: models.StringPtr(actionAwaiting),
		Drafts:        drafts,
	})
	d.store.SetActiveAgent(agent)

	desc := env.Str("message")
	if desc == "" {
		desc = "Drafts are ready for your review"
	}
	d.store.AppendLog(models.LogInput{
		Icon:        IconApproval,
		Agent:       agent,
		Title:       titleApproval,
		Description: desc,
		Status:      models.LogStatusWaiting,
	})
}

func (d *Dispatcher) jobStreamSourceStart(env channel.Envelope) {
	key, label := sourceOf(env)
	d.store.JobStreamSourceStart(key, label)
}

func (d *Dispatcher) jobStreamBatch(env channel.Envelope) {
	key, label := sourceOf(env)
	d.store.JobStreamBatch(key, label, jobsField(env, "jobs"))
}

func (d *Dispatcher) jobStreamDedupDone(env channel.Envelope) {
	before, _ := env.Int("before")
	after, _ := env.Int("after")
	removed, ok := env.Int("removed")
	if !ok {
		removed = before - after
	}
	d.store.JobStreamDedupDone(before, after, removed)
}

func (d *Dispatcher) jobStreamUniqueJobs(env channel.Envelope) {
	d.store.JobStreamUniqueJobs(jobsField(env, "jobs"))
}

func (d *Dispatcher) jobStreamHRStatus(env channel.Envelope) {
	d.store.JobStreamHRStatus(env.Str("company"), env.Str("title"), env.Str("status"), env.Str("email"))
}

func sourceOf(env channel.Envelope) (key, label string) {
	key = env.Str("source")
	label = env.Str("label")
	if label == "" {
		label = key
	}
	return key, label
}

func jobsField(env channel.Envelope, key string) []models.Job {
	objs := env.Objects(key)
	jobs := make([]models.Job, len(objs))
	for i, o := range objs {
		jobs[i] = models.Job(o)
	}
	return jobs
}

// durationField accepts seconds as a number or a preformatted string.
func durationField(env channel.Envelope, key string) string {
	if secs, ok := env.Value(key).(float64); ok {
		return FormatDuration(secs)
	}
	return env.Str(key)
}

// tokensField accepts a count as a number or a preformatted string.
func tokensField(env channel.Envelope, key string) string {
	if n, ok := env.Value(key).(float64); ok {
		return FormatTokens(int(n))
	}
	return env.Str(key)
}
