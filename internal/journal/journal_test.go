package journal

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}

func entry(id string, ts time.Time, agent models.AgentName, status models.LogStatus) models.LogEntry {
	return models.LogEntry{
		ID:        id,
		Timestamp: ts,
		Icon:      "📄",
		Agent:     agent,
		Title:     "title " + id,
		Status:    status,
		Duration:  "1.0s",
	}
}

func TestAppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := j.StartSession("s1", "ws://localhost:8000/ws", base); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		e := entry(fmt.Sprintf("e%d", i), base.Add(time.Duration(i)*time.Second), models.AgentCVParser, models.LogStatusRunning)
		if err := j.Append("s1", e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := j.Recent(3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent(3) returned %d entries", len(got))
	}
	if got[0].ID != "e4" || got[2].ID != "e2" {
		t.Errorf("Recent(3) ids = %s..%s, want e4..e2", got[0].ID, got[2].ID)
	}
	if got[0].SessionID != "s1" || got[0].Duration != "1.0s" || got[0].Agent != models.AgentCVParser {
		t.Errorf("entry = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(base.Add(4 * time.Second)) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, base.Add(4*time.Second))
	}

	all, err := j.Recent(0)
	if err != nil || len(all) != 5 {
		t.Errorf("Recent(0) = %d entries, %v; want 5", len(all), err)
	}
}

func TestAppendRequiresSession(t *testing.T) {
	j := openTestJournal(t)
	err := j.Append("missing", entry("x", time.Now(), models.AgentSupervisor, models.LogStatusDone))
	if err == nil {
		t.Error("Append() into an unknown session should fail the foreign key")
	}
}

func TestUpdateStatus(t *testing.T) {
	j := openTestJournal(t)
	now := time.Now()
	_ = j.StartSession("s1", "", now)
	_ = j.Append("s1", entry("e1", now, models.AgentHRFinder, models.LogStatusRunning))

	if err := j.UpdateStatus("e1", models.LogStatusError); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if err := j.UpdateStatus("nope", models.LogStatusDone); err != nil {
		t.Errorf("UpdateStatus(missing) error = %v, want nil", err)
	}
	got, _ := j.SessionEntries("s1")
	if len(got) != 1 || got[0].Status != models.LogStatusError {
		t.Errorf("entries = %+v, want one error entry", got)
	}
}

func TestSessions(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_ = j.StartSession("old", "ws://a", base)
	_ = j.StartSession("new", "ws://b", base.Add(time.Hour))
	_ = j.StartSession("new", "ws://ignored", base.Add(2*time.Hour))
	_ = j.Append("old", entry("e1", base, models.AgentSupervisor, models.LogStatusDone))
	_ = j.Append("old", entry("e2", base, models.AgentSupervisor, models.LogStatusDone))

	sessions, err := j.Sessions(0)
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Sessions() = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "new" || sessions[0].ServerURL != "ws://b" || sessions[0].Entries != 0 {
		t.Errorf("sessions[0] = %+v", sessions[0])
	}
	if sessions[1].ID != "old" || sessions[1].Entries != 2 {
		t.Errorf("sessions[1] = %+v", sessions[1])
	}
}

func TestHookMirrorsStore(t *testing.T) {
	j := openTestJournal(t)
	if err := j.StartSession("live", "", time.Now()); err != nil {
		t.Fatal(err)
	}
	store := state.New(state.Options{OnLog: j.Hook("live")})

	store.AppendLog(models.LogInput{Agent: models.AgentJobHunter, Title: "Searching", Status: models.LogStatusRunning})
	store.PatchLastLogForAgent(models.AgentJobHunter, models.LogStatusDone)
	store.ResetAll()
	store.AppendLog(models.LogInput{Agent: models.AgentCVTailor, Title: "Tailoring", Status: models.LogStatusRunning})

	got, err := j.SessionEntries("live")
	if err != nil {
		t.Fatalf("SessionEntries() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("journal has %d entries, want 2 (reset keeps history)", len(got))
	}
	byTitle := map[string]models.LogStatus{}
	for _, e := range got {
		byTitle[e.Title] = e.Status
	}
	if byTitle["Searching"] != models.LogStatusDone {
		t.Errorf("Searching status = %s, want done", byTitle["Searching"])
	}
	if byTitle["Tailoring"] != models.LogStatusRunning {
		t.Errorf("Tailoring status = %s, want running", byTitle["Tailoring"])
	}
}
