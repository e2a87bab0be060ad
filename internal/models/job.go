package models

import "fmt"

// Job is a single job posting as received from the server. The payload is opaque;
// the accessors only read well-known keys for display.
type Job map[string]any

// Title returns the posting title, if present.
func (j Job) Title() string { return j.str("title") }

// Company returns the hiring company, if present.
func (j Job) Company() string { return j.str("company") }

// Location returns the job location, if present.
func (j Job) Location() string { return j.str("location") }

// URL returns the posting link, if present.
func (j Job) URL() string {
	if u := j.str("url"); u != "" {
		return u
	}
	return j.str("link")
}

func (j Job) str(key string) string {
	v, ok := j[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// JobSource is one search backend contributing results to a job stream.
type JobSource struct {
	Key       string `yaml:"key"`
	Label     string `yaml:"label"`
	Jobs      []Job  `yaml:"jobs"`
	Searching bool   `yaml:"searching"`
}

// DedupResult carries the counters reported by the upstream deduplication step.
type DedupResult struct {
	Before  int `yaml:"before"`
	After   int `yaml:"after"`
	Removed int `yaml:"removed"`
}

// HRStatus is the contact lookup state for one company/title pair.
type HRStatus struct {
	Status string `yaml:"status"`
	Email  string `yaml:"email,omitempty"`
}

// HRKey builds the composite key used by JobStream.HRStatuses.
func HRKey(company, title string) string {
	return company + "|" + title
}

// JobStream is the aggregated view of one in-flight multi-source job search.
type JobStream struct {
	Sources       []JobSource         `yaml:"sources"`
	Deduplicating bool                `yaml:"deduplicating"`
	DedupResult   *DedupResult        `yaml:"dedup_result,omitempty"`
	Active        bool                `yaml:"active"`
	UniqueJobs    []Job               `yaml:"unique_jobs"`
	HRStatuses    map[string]HRStatus `yaml:"hr_statuses"`
}

// NewJobStream returns an empty, active job stream.
func NewJobStream() *JobStream {
	return &JobStream{
		Sources:    []JobSource{},
		Active:     true,
		UniqueJobs: []Job{},
		HRStatuses: map[string]HRStatus{},
	}
}

// FindSource returns the source registered under key, or nil.
func (s *JobStream) FindSource(key string) *JobSource {
	for i := range s.Sources {
		if s.Sources[i].Key == key {
			return &s.Sources[i]
		}
	}
	return nil
}

// TotalJobs counts raw results across all sources.
func (s *JobStream) TotalJobs() int {
	n := 0
	for _, src := range s.Sources {
		n += len(src.Jobs)
	}
	return n
}

// Clone returns a copy whose slices and maps are not shared with s.
// Individual Job maps are shared; they are never mutated after receipt.
func (s *JobStream) Clone() *JobStream {
	if s == nil {
		return nil
	}
	out := &JobStream{
		Deduplicating: s.Deduplicating,
		Active:        s.Active,
		Sources:       make([]JobSource, len(s.Sources)),
		UniqueJobs:    append([]Job(nil), s.UniqueJobs...),
		HRStatuses:    make(map[string]HRStatus, len(s.HRStatuses)),
	}
	for i, src := range s.Sources {
		src.Jobs = append([]Job(nil), src.Jobs...)
		out.Sources[i] = src
	}
	if s.DedupResult != nil {
		d := *s.DedupResult
		out.DedupResult = &d
	}
	for k, v := range s.HRStatuses {
		out.HRStatuses[k] = v
	}
	return out
}
