// Package stager implements the daily ingestion pass: scan the local
// assessment tree for records carrying a target date, copy unseen ones to
// partitioned object storage, and notify the query service.
package stager

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/ports"
)

// Stager uploads one day's records into partitioned storage.
type Stager struct {
	store       ports.ObjectStore
	datasetPath string
	rawPrefix   string
}

// New creates a stager over the local tree at datasetPath, writing keys
// beneath rawPrefix.
func New(store ports.ObjectStore, datasetPath, rawPrefix string) *Stager {
	return &Stager{store: store, datasetPath: datasetPath, rawPrefix: rawPrefix}
}

// Result summarizes one staging run.
type Result struct {
	Matched  int `json:"matched"`
	Uploaded int `json:"uploaded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// candidate is one local file whose embedded date matched the target.
type candidate struct {
	path        string
	level       string
	participant string
	date        string
}

// IsValidDate reports whether s is a well-formed 8-digit YYYYMMDD date.
func IsValidDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	_, err := time.Parse("20060102", s)
	return err == nil
}

// Run scans for files dated targetDate and uploads the unseen ones.
// Individual file problems are logged and counted, never abort the run;
// an invalid target date is the only input error.
func (s *Stager) Run(ctx context.Context, targetDate string) (Result, error) {
	if !IsValidDate(targetDate) {
		return Result{}, errors.InvalidInput(fmt.Sprintf("target date %q is not YYYYMMDD", targetDate))
	}

	candidates := s.findFilesByDate(targetDate)
	log.Printf("stager: %d files match date %s", len(candidates), targetDate)

	result := Result{Matched: len(candidates)}
	for _, c := range candidates {
		key := s.storageKey(c)

		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			result.Failed++
			log.Printf("stager: existence check failed for %s: %v", key, err)
			continue
		}
		if exists {
			result.Skipped++
			log.Printf("stager: already staged, skipping %s", key)
			continue
		}

		data, err := os.ReadFile(c.path)
		if err != nil {
			result.Failed++
			log.Printf("stager: read failed for %s: %v", c.path, err)
			continue
		}
		if err := s.store.Put(ctx, key, data); err != nil {
			result.Failed++
			log.Printf("stager: upload failed for %s: %v", key, err)
			continue
		}
		result.Uploaded++
		log.Printf("stager: uploaded %s", key)
	}

	log.Printf("stager: run complete for %s: matched=%d uploaded=%d skipped=%d failed=%d",
		targetDate, result.Matched, result.Uploaded, result.Skipped, result.Failed)
	return result, nil
}

// findFilesByDate walks level/participant subdirectories collecting JSON
// files whose embedded metadata date equals the target exactly. Unreadable
// files and malformed dates are logged and excluded.
func (s *Stager) findFilesByDate(targetDate string) []candidate {
	var matches []candidate
	for _, level := range participant.AllLevels {
		levelPath := filepath.Join(s.datasetPath, string(level))
		entries, err := os.ReadDir(levelPath)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			participantDir := filepath.Join(levelPath, entry.Name())
			files, err := filepath.Glob(filepath.Join(participantDir, "*.json"))
			if err != nil {
				continue
			}

			for _, path := range files {
				fileDate, ok := readEmbeddedDate(path)
				if !ok {
					continue
				}
				if fileDate != targetDate {
					continue
				}
				matches = append(matches, candidate{
					path:        path,
					level:       string(level),
					participant: entry.Name(),
					date:        fileDate,
				})
			}
		}
	}
	return matches
}

// readEmbeddedDate pulls metadata.date out of one record and validates it
// strictly; a warning is logged for anything malformed.
func readEmbeddedDate(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("stager: warning: cannot read %s: %v", path, err)
		return "", false
	}

	var doc struct {
		Metadata struct {
			Date string `json:"date"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("stager: warning: cannot parse %s: %v", path, err)
		return "", false
	}
	if doc.Metadata.Date == "" {
		return "", false
	}
	if !IsValidDate(doc.Metadata.Date) {
		log.Printf("stager: warning: invalid date %q in %s", doc.Metadata.Date, path)
		return "", false
	}
	return doc.Metadata.Date, true
}

// storageKey computes the deterministic partitioned key for a candidate:
// <prefix>year=YYYY/month=MM/day=DD/level=XX/<participant>/<filename>.
func (s *Stager) storageKey(c candidate) string {
	year, month, day := c.date[:4], c.date[4:6], c.date[6:8]
	return fmt.Sprintf("%syear=%s/month=%s/day=%s/level=%s/%s/%s",
		s.rawPrefix, year, month, day, c.level, c.participant, filepath.Base(c.path))
}
