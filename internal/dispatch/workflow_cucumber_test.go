//go:build cucumber

package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

// TestWorkflowScenarios runs the dispatcher feature scenarios.
func TestWorkflowScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "workflow-events",
		ScenarioInitializer: InitializeWorkflowScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "workflow.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeWorkflowScenario wires steps for dispatcher scenarios.
func InitializeWorkflowScenario(ctx *godog.ScenarioContext) {
	s := &workflowScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh dispatcher$`, s.givenFreshDispatcher)
	ctx.Step(`^the event "([^"]+)" arrives with data:$`, s.whenEventArrives)
	ctx.Step(`^the raw frame "(.*)" arrives$`, s.whenRawFrameArrives)
	ctx.Step(`^agent "([^"]+)" has status "([^"]+)"$`, s.thenAgentStatus)
	ctx.Step(`^the feed head has title "([^"]+)"$`, s.thenFeedHeadTitle)
	ctx.Step(`^the feed entry (\d+) has status "([^"]+)"$`, s.thenFeedEntryStatus)
	ctx.Step(`^the feed has (\d+) entries$`, s.thenFeedLength)
	ctx.Step(`^source (\d+) has (\d+) jobs$`, s.thenSourceJobs)
	ctx.Step(`^the dedup result is (\d+) before, (\d+) after, (\d+) removed$`, s.thenDedupResult)
	ctx.Step(`^there are (\d+) unique jobs$`, s.thenUniqueJobs)
	ctx.Step(`^the job stream is inactive$`, s.thenJobStreamInactive)
}

type workflowScenarioState struct {
	store      *state.Store
	dispatcher *Dispatcher
}

func (s *workflowScenarioState) reset() {
	s.store = nil
	s.dispatcher = nil
}

func (s *workflowScenarioState) givenFreshDispatcher() error {
	s.store = state.New(state.Options{})
	s.dispatcher = New(s.store, DefaultTextPolicy())
	return nil
}

func (s *workflowScenarioState) whenEventArrives(eventType string, data *godog.DocString) error {
	frame := fmt.Sprintf(`{"type":%q,"data":%s}`, eventType, data.Content)
	return s.whenRawFrameArrives(frame)
}

// whenRawFrameArrives mirrors the session loop: undecodable frames are dropped.
func (s *workflowScenarioState) whenRawFrameArrives(frame string) error {
	env, err := channel.Decode([]byte(unquote(frame)))
	if err != nil {
		return nil
	}
	s.dispatcher.Dispatch(env)
	return nil
}

func (s *workflowScenarioState) thenAgentStatus(agent, status string) error {
	got := s.store.Agent(models.ParseAgentName(agent)).Status
	if string(got) != status {
		return fmt.Errorf("agent %s status = %s, want %s", agent, got, status)
	}
	return nil
}

func (s *workflowScenarioState) thenFeedHeadTitle(title string) error {
	feed := s.store.Feed()
	if len(feed) == 0 {
		return fmt.Errorf("feed is empty")
	}
	if feed[0].Title != title {
		return fmt.Errorf("feed head title = %q, want %q", feed[0].Title, title)
	}
	return nil
}

func (s *workflowScenarioState) thenFeedEntryStatus(pos int, status string) error {
	feed := s.store.Feed()
	if pos < 1 || pos > len(feed) {
		return fmt.Errorf("feed has %d entries, no entry %d", len(feed), pos)
	}
	if got := feed[pos-1].Status; string(got) != status {
		return fmt.Errorf("feed entry %d status = %s, want %s", pos, got, status)
	}
	return nil
}

func (s *workflowScenarioState) thenFeedLength(n int) error {
	if got := s.store.FeedLen(); got != n {
		return fmt.Errorf("feed length = %d, want %d", got, n)
	}
	return nil
}

func (s *workflowScenarioState) jobStream() (*models.JobStream, error) {
	js := s.store.JobStream()
	if js == nil {
		return nil, fmt.Errorf("no job stream")
	}
	return js, nil
}

func (s *workflowScenarioState) thenSourceJobs(pos, n int) error {
	js, err := s.jobStream()
	if err != nil {
		return err
	}
	if pos < 1 || pos > len(js.Sources) {
		return fmt.Errorf("job stream has %d sources, no source %d", len(js.Sources), pos)
	}
	if got := len(js.Sources[pos-1].Jobs); got != n {
		return fmt.Errorf("source %d has %d jobs, want %d", pos, got, n)
	}
	return nil
}

func (s *workflowScenarioState) thenDedupResult(before, after, removed int) error {
	js, err := s.jobStream()
	if err != nil {
		return err
	}
	want := models.DedupResult{Before: before, After: after, Removed: removed}
	if js.DedupResult == nil || *js.DedupResult != want {
		return fmt.Errorf("dedup result = %+v, want %+v", js.DedupResult, want)
	}
	return nil
}

func (s *workflowScenarioState) thenUniqueJobs(n int) error {
	js, err := s.jobStream()
	if err != nil {
		return err
	}
	if got := len(js.UniqueJobs); got != n {
		return fmt.Errorf("unique jobs = %d, want %d", got, n)
	}
	return nil
}

func (s *workflowScenarioState) thenJobStreamInactive() error {
	js, err := s.jobStream()
	if err != nil {
		return err
	}
	if js.Active {
		return fmt.Errorf("job stream is still active")
	}
	return nil
}

// unquote undoes the \" escaping used for frames inside step text.
func unquote(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '"' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
