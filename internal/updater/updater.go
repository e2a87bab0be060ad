// Package updater checks GitHub Releases for a newer hirewire build.
package updater

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/hirewire/hirewire/internal/buildinfo"
)

// DefaultReleasesURL is the latest-release endpoint of the hirewire repository.
const DefaultReleasesURL = "https://api.github.com/repos/hirewire/hirewire/releases/latest"

// ReleaseInfo is the subset of a GitHub release the check needs.
type ReleaseInfo struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// UpdateResult contains the result of an update check.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	PublishedAt    time.Time
}

// Checker queries a releases endpoint.
type Checker struct {
	URL     string
	Client  *http.Client
	Current string
}

// NewChecker returns a checker for the running build.
func NewChecker() *Checker {
	return &Checker{
		URL:     DefaultReleasesURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Current: buildinfo.Version,
	}
}

// Check fetches the latest release and compares it with the current version.
// An unparseable current version (such as "dev") is treated as older.
func (c *Checker) Check(ctx context.Context) (*UpdateResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "hirewire/"+c.Current)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	result := &UpdateResult{CurrentVersion: c.Current}
	if resp.StatusCode == http.StatusNotFound {
		// No releases yet
		return result, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	latest, err := ParseSemver(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", release.TagName, err)
	}
	result.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	result.ReleaseURL = release.HTMLURL
	result.PublishedAt = release.PublishedAt

	current, err := ParseSemver(c.Current)
	if err != nil {
		result.Available = true
		return result, nil
	}
	result.Available = current.LessThan(latest)
	return result, nil
}
