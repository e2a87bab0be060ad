package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hirewire/hirewire/internal/models"
)

// FeedExport is the header metadata of an exported log feed file.
type FeedExport struct {
	ExportID   string
	SessionID  string
	ExportedAt string
	Entries    int
}

// ExportFeed writes entries (newest first, as the feed stores them) to an export file
// with a YAML-style header followed by one line per entry, oldest first.
func ExportFeed(sessionID string, entries []models.LogEntry) (*FeedExport, string, error) {
	dir, err := ExportsDir()
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", fmt.Errorf("failed to create exports dir: %w", err)
	}

	now := time.Now().UTC()
	exportID := now.Format("2006-01-02T15-04-05")
	if sessionID != "" {
		exportID += "-" + shortID(sessionID)
	}

	meta := &FeedExport{
		ExportID:   exportID,
		SessionID:  sessionID,
		ExportedAt: now.Format(time.RFC3339),
		Entries:    len(entries),
	}

	filePath := filepath.Join(dir, exportID+".log")
	f, err := os.Create(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "session_id: %s\n", sessionID)
	fmt.Fprintf(w, "exported_at: %s\n", meta.ExportedAt)
	fmt.Fprintf(w, "entries: %d\n", meta.Entries)
	fmt.Fprintln(w, "---")

	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintln(w, FormatEntryLine(entries[i]))
		if t := entries[i].Thought; t != "" {
			fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(t, "\n", "\n    "))
		}
	}

	if err := w.Flush(); err != nil {
		return nil, "", fmt.Errorf("failed to write export: %w", err)
	}
	return meta, filePath, nil
}

// FormatEntryLine renders one entry as a single plain-text line.
func FormatEntryLine(e models.LogEntry) string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Local().Format("15:04:05"))
	sb.WriteString(" ")
	if e.Icon != "" {
		sb.WriteString(e.Icon)
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "[%s] %s", e.Agent, e.Title)
	if e.Description != "" {
		sb.WriteString(" — ")
		sb.WriteString(e.Description)
	}
	fmt.Fprintf(&sb, " (%s", e.Status)
	if e.Duration != "" {
		sb.WriteString(", " + e.Duration)
	}
	if e.Tokens != "" {
		sb.WriteString(", " + e.Tokens)
	}
	sb.WriteString(")")
	return sb.String()
}

// ListExports returns metadata for every export file (newest first).
func ListExports() ([]*FeedExport, error) {
	dir, err := ExportsDir()
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var exports []*FeedExport
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		meta, err := parseExportHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		exports = append(exports, meta)
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].ExportedAt > exports[j].ExportedAt
	})
	return exports, nil
}

func parseExportHeader(path string) (*FeedExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	meta := &FeedExport{}
	inHeader := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			if !inHeader {
				inHeader = true
				continue
			}
			break
		}
		if inHeader {
			parseExportHeaderLine(meta, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	meta.ExportID = strings.TrimSuffix(filepath.Base(path), ".log")
	return meta, nil
}

func parseExportHeaderLine(meta *FeedExport, line string) {
	key, val, ok := strings.Cut(line, ": ")
	if !ok {
		return
	}
	val = strings.TrimSpace(val)

	switch strings.TrimSpace(key) {
	case "session_id":
		meta.SessionID = val
	case "exported_at":
		meta.ExportedAt = val
	case "entries":
		fmt.Sscanf(val, "%d", &meta.Entries)
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
