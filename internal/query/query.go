// Package query is the read side of the feedback history: bounded listings,
// operator insights and reset.
package query

import (
	"fmt"
	"time"

	"eos-mcp/internal/analytics"
	"eos-mcp/internal/feedback"
	"eos-mcp/internal/history"
)

const (
	MaxFeedbackLimit = 500
	MaxErrorsLimit   = 500
	MaxActionsLimit  = 200

	DefaultFeedbackLimit = 50
	DefaultErrorsLimit   = 20
	DefaultActionsLimit  = 50
)

// ValidationError reports a query parameter outside its declared bound.
type ValidationError struct {
	Field      string
	Value      any
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Constraint)
}

// Service answers queries against a history store.
type Service struct {
	store      *history.Store
	thresholds analytics.Thresholds
	now        func() time.Time
}

func NewService(store *history.Store) *Service {
	return &Service{
		store:      store,
		thresholds: analytics.DefaultThresholds(),
		now:        time.Now,
	}
}

// WithClock replaces the wall clock used for insights windows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithThresholds replaces the recommendation thresholds.
func (s *Service) WithThresholds(th analytics.Thresholds) *Service {
	s.thresholds = th
	return s
}

// List returns the most recent limit feedback messages, oldest first,
// optionally restricted to one category. An empty category means all.
func (s *Service) List(category string, limit int) ([]feedback.Message, error) {
	if err := checkLimit("limit", limit, MaxFeedbackLimit); err != nil {
		return nil, err
	}
	if category == "" {
		return s.store.Feedback.Tail(limit, nil), nil
	}
	c, err := feedback.ParseCategory(category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Value: category, Constraint: fmt.Sprintf("must be one of %v", feedback.Categories())}
	}
	return s.store.Feedback.Tail(limit, func(m feedback.Message) bool { return m.Category == c }), nil
}

// ListErrors returns the most recent console errors, oldest first.
func (s *Service) ListErrors(limit int) ([]feedback.Message, error) {
	if err := checkLimit("limit", limit, MaxErrorsLimit); err != nil {
		return nil, err
	}
	return s.store.Feedback.Tail(limit, func(m feedback.Message) bool { return m.Category == feedback.CategoryError }), nil
}

// ListActions returns the most recent operator actions, oldest first.
func (s *Service) ListActions(limit int) ([]feedback.Action, error) {
	if err := checkLimit("limit", limit, MaxActionsLimit); err != nil {
		return nil, err
	}
	return s.store.Actions.Tail(limit, nil), nil
}

// Insights analyses the trailing window. windowMinutes is clamped to
// [1, 1440]. Each log is snapshotted independently.
func (s *Service) Insights(windowMinutes int) *analytics.Report {
	messages := s.store.Feedback.Snapshot()
	actions := s.store.Actions.Snapshot()
	return analytics.Analyze(messages, actions, windowMinutes, s.now(), s.thresholds)
}

// Reset clears both logs.
func (s *Service) Reset() {
	s.store.Clear()
}

func checkLimit(field string, v, max int) error {
	if v < 1 || v > max {
		return &ValidationError{Field: field, Value: v, Constraint: fmt.Sprintf("must be between 1 and %d", max)}
	}
	return nil
}
