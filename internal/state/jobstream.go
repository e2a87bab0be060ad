package state

import "github.com/hirewire/hirewire/internal/models"

// JobStreamStart begins a new job search session, discarding any previous one.
func (s *Store) JobStreamStart() {
	s.mu.Lock()
	s.jobs = models.NewJobStream()
	s.mu.Unlock()
	s.notify()
}

// JobStreamSourceStart registers a searching placeholder for key. Repeats are no-ops.
func (s *Store) JobStreamSourceStart(key, label string) {
	s.mutateJobs(func(js *models.JobStream) {
		if js.FindSource(key) != nil {
			return
		}
		js.Sources = append(js.Sources, models.JobSource{
			Key:       key,
			Label:     label,
			Jobs:      []models.Job{},
			Searching: true,
		})
	})
}

// JobStreamBatch appends jobs to the source and marks it done searching.
// A batch that arrives before its start signal creates the source.
func (s *Store) JobStreamBatch(key, label string, jobs []models.Job) {
	s.mutateJobs(func(js *models.JobStream) {
		src := js.FindSource(key)
		if src == nil {
			js.Sources = append(js.Sources, models.JobSource{Key: key, Label: label, Jobs: []models.Job{}})
			src = &js.Sources[len(js.Sources)-1]
		}
		if src.Label == "" {
			src.Label = label
		}
		src.Jobs = append(src.Jobs, jobs...)
		src.Searching = false
	})
}

// JobStreamDedupStart marks the upstream deduplication step as running.
func (s *Store) JobStreamDedupStart() {
	s.mutateJobs(func(js *models.JobStream) {
		js.Deduplicating = true
	})
}

// JobStreamDedupDone records the deduplication counters.
func (s *Store) JobStreamDedupDone(before, after, removed int) {
	s.mutateJobs(func(js *models.JobStream) {
		js.Deduplicating = false
		js.DedupResult = &models.DedupResult{Before: before, After: after, Removed: removed}
	})
}

// JobStreamUniqueJobs publishes the final result set and ends the session.
func (s *Store) JobStreamUniqueJobs(jobs []models.Job) {
	if jobs == nil {
		jobs = []models.Job{}
	}
	s.mutateJobs(func(js *models.JobStream) {
		js.UniqueJobs = jobs
		js.Deduplicating = false
		js.Active = false
	})
}

// JobStreamHRStatus records the HR contact lookup state for a company/title pair.
func (s *Store) JobStreamHRStatus(company, title, status, email string) {
	s.mutateJobs(func(js *models.JobStream) {
		js.HRStatuses[models.HRKey(company, title)] = models.HRStatus{Status: status, Email: email}
	})
}

// JobStream returns a snapshot of the current job stream, or nil if none is tracked.
func (s *Store) JobStream() *models.JobStream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs.Clone()
}

// mutateJobs applies fn to the current stream, allocating one if events arrive
// without a start signal (e.g. the client connected mid-search).
func (s *Store) mutateJobs(fn func(*models.JobStream)) {
	s.mu.Lock()
	if s.jobs == nil {
		s.jobs = models.NewJobStream()
	}
	fn(s.jobs)
	s.mu.Unlock()
	s.notify()
}
