package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
)

// ReportSection groups the sessions of one project inside the window.
type ReportSection struct {
	Project  *project.Project
	Sessions []session.Record
	Time     time.Duration
	Rows     int
}

// ReportResult summarizes knitting done between Since and Until.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Time     time.Duration
	Rows     int
}

// Report collects finished sessions between the provided bounds, grouped by
// project, busiest project first.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	all, err := s.List(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{Since: since, Until: until}
	for _, p := range all {
		section := ReportSection{Project: p}
		for _, rec := range p.Sessions {
			if rec.Timestamp.Before(since) || rec.Timestamp.After(until) {
				continue
			}
			section.Sessions = append(section.Sessions, rec)
			section.Time += rec.Duration
			section.Rows += rec.RowsCompleted
		}
		if len(section.Sessions) == 0 {
			continue
		}
		result.Sections = append(result.Sections, section)
		result.Time += section.Time
		result.Rows += section.Rows
	}
	sort.SliceStable(result.Sections, func(i, j int) bool {
		return result.Sections[i].Time > result.Sections[j].Time
	})
	return result, nil
}
