// Package stats implements time-windowed listen and like aggregation over
// the play-history and saved-item event logs.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
)

// ErrInvalidInput indicates malformed aggregation parameters
var ErrInvalidInput = errors.New("invalid input")

// EventKind selects which event log is aggregated
type EventKind int

const (
	// KindListen aggregates play-history events
	KindListen EventKind = iota
	// KindLike aggregates library save events
	KindLike
)

// TargetType selects whether targets are tracks or albums. Album-level
// listen aggregation resolves each play to the album of the played track.
type TargetType int

const (
	// TargetTrack aggregates per track
	TargetTrack TargetType = iota
	// TargetAlbum aggregates per album
	TargetAlbum
)

// Period is the time-bucket granularity for grouping
type Period string

const (
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
	PeriodDay   Period = "day"
)

// ParsePeriod converts a wire name into a Period
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodYear, PeriodMonth, PeriodDay:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: period must be one of year, month, day", ErrInvalidInput)
	}
}

// GroupKey identifies one aggregation bucket. Month is zero unless the
// period is month or day; Day is zero unless the period is day.
type GroupKey struct {
	TargetID uuid.UUID `json:"target_id"`
	Year     int       `json:"year"`
	Month    int       `json:"month,omitempty"`
	Day      int       `json:"day,omitempty"`
}

// Group is one aggregation bucket with its event count
type Group struct {
	Key   GroupKey `json:"key"`
	Count int64    `json:"count"`
}

// Service handles listen/like aggregation queries
type Service struct {
	repos *db.Repositories
}

// NewService creates a new stats service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// Aggregate counts events for the given targets bucketed by period over the
// half-open window [start, end). Groups are returned in no particular order.
func (s *Service) Aggregate(ctx context.Context, kind EventKind, targetType TargetType, targetIDs []uuid.UUID, period Period, start, end time.Time) ([]Group, error) {
	if len(targetIDs) == 0 {
		return nil, fmt.Errorf("%w: no target ids given", ErrInvalidInput)
	}
	switch period {
	case PeriodYear, PeriodMonth, PeriodDay:
	default:
		return nil, fmt.Errorf("%w: period must be one of year, month, day", ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: both start and end dates are required", ErrInvalidInput)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date is after end date", ErrInvalidInput)
	}

	events, err := s.fetchEvents(ctx, kind, targetType, targetIDs, start, end)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Int("kind", int(kind)).
			Int("targets", len(targetIDs)).
			Msg("Failed to fetch events for aggregation")
		return nil, fmt.Errorf("failed to aggregate: %w", err)
	}

	counts := make(map[GroupKey]int64)
	for _, ev := range events {
		counts[bucket(ev.targetID, ev.at, period)]++
	}

	groups := make([]Group, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, Group{Key: key, Count: count})
	}

	logger.Log.Debug().
		Int("events", len(events)).
		Int("groups", len(groups)).
		Str("period", string(period)).
		Msg("Aggregation computed")

	return groups, nil
}

// event is one log entry projected to (target, timestamp)
type event struct {
	targetID uuid.UUID
	at       time.Time
}

// bucket assigns an event to its group for the given period
func bucket(targetID uuid.UUID, at time.Time, period Period) GroupKey {
	at = at.UTC()
	key := GroupKey{TargetID: targetID, Year: at.Year()}
	if period == PeriodMonth || period == PeriodDay {
		key.Month = int(at.Month())
	}
	if period == PeriodDay {
		key.Day = at.Day()
	}
	return key
}

// fetchEvents reads the relevant event log filtered to the window and targets
func (s *Service) fetchEvents(ctx context.Context, kind EventKind, targetType TargetType, targetIDs []uuid.UUID, start, end time.Time) ([]event, error) {
	switch {
	case kind == KindListen && targetType == TargetTrack:
		rows, err := s.repos.PlayHistory.PlayEventsInWindow(ctx, targetIDs, start, end)
		if err != nil {
			return nil, err
		}
		events := make([]event, len(rows))
		for i, row := range rows {
			events[i] = event{targetID: row.TrackID, at: row.PlayedAt}
		}
		return events, nil

	case kind == KindListen && targetType == TargetAlbum:
		rows, err := s.repos.PlayHistory.PlayEventsForAlbumsInWindow(ctx, targetIDs, start, end)
		if err != nil {
			return nil, err
		}
		events := make([]event, len(rows))
		for i, row := range rows {
			events[i] = event{targetID: row.AlbumID, at: row.PlayedAt}
		}
		return events, nil

	case kind == KindLike && targetType == TargetTrack:
		rows, err := s.repos.SavedTracks.SaveEventsInWindow(ctx, targetIDs, start, end)
		if err != nil {
			return nil, err
		}
		events := make([]event, len(rows))
		for i, row := range rows {
			events[i] = event{targetID: row.TrackID, at: row.AddedAt}
		}
		return events, nil

	default:
		rows, err := s.repos.SavedAlbums.SaveEventsInWindow(ctx, targetIDs, start, end)
		if err != nil {
			return nil, err
		}
		events := make([]event, len(rows))
		for i, row := range rows {
			events[i] = event{targetID: row.AlbumID, at: row.AddedAt}
		}
		return events, nil
	}
}
