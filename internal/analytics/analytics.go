package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"eos-mcp/internal/feedback"
)

const (
	MinWindowMinutes     = 1
	MaxWindowMinutes     = 1440
	DefaultWindowMinutes = 60

	maxRecentErrors = 5
	maxTopActions   = 5
)

// Thresholds drive the recommendation heuristics.
type Thresholds struct {
	HighErrorCount      int     // more errors than this in the window triggers a caution
	RapidGapSeconds     float64 // mean gap below this counts as rapid work
	RapidMinActions     int     // rapid work needs more actions than this
	DominanceRatio      float64 // share of actions one tag must exceed
	DominanceMinActions int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighErrorCount:      5,
		RapidGapSeconds:     2,
		RapidMinActions:     10,
		DominanceRatio:      0.5,
		DominanceMinActions: 5,
	}
}

// ErrorEntry is one console error inside the window.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"time"`
	Error     string    `json:"error"`
}

// ActionCount is how often an action tag occurred.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// Report is the operator insights computed over a trailing window.
type Report struct {
	TimeWindowMinutes            int                       `json:"time_window_minutes"`
	GeneratedAt                  time.Time                 `json:"generated_at"`
	TotalFeedbackMessages        int                       `json:"total_feedback_messages"`
	TotalActions                 int                       `json:"total_actions"`
	FeedbackByCategory           map[feedback.Category]int `json:"feedback_by_category"`
	ErrorCount                   int                       `json:"error_count"`
	RecentErrors                 []ErrorEntry              `json:"recent_errors"`
	MostCommonActions            []ActionCount             `json:"most_common_actions"`
	AverageSecondsBetweenActions *float64                  `json:"average_seconds_between_actions,omitempty"`
	Recommendations              []string                  `json:"recommendations"`
}

// ClampWindow bounds a window length to [MinWindowMinutes, MaxWindowMinutes].
func ClampWindow(minutes int) int {
	if minutes < MinWindowMinutes {
		return MinWindowMinutes
	}
	if minutes > MaxWindowMinutes {
		return MaxWindowMinutes
	}
	return minutes
}

// Analyze computes insights over the entries no older than windowMinutes
// before now. Inputs are snapshots and are not modified.
func Analyze(messages []feedback.Message, actions []feedback.Action, windowMinutes int, now time.Time, th Thresholds) *Report {
	windowMinutes = ClampWindow(windowMinutes)
	cutoff := now.Add(-time.Duration(windowMinutes) * time.Minute)

	r := &Report{
		TimeWindowMinutes:  windowMinutes,
		GeneratedAt:        now,
		FeedbackByCategory: make(map[feedback.Category]int),
		RecentErrors:       []ErrorEntry{},
		MostCommonActions:  []ActionCount{},
		Recommendations:    []string{},
	}

	var errs []feedback.Message
	for _, m := range messages {
		if m.Timestamp.Before(cutoff) {
			continue
		}
		r.TotalFeedbackMessages++
		r.FeedbackByCategory[m.Category]++
		if m.Category == feedback.CategoryError {
			errs = append(errs, m)
		}
	}

	r.ErrorCount = len(errs)
	for i := len(errs) - 1; i >= 0 && len(r.RecentErrors) < maxRecentErrors; i-- {
		r.RecentErrors = append(r.RecentErrors, ErrorEntry{
			Timestamp: errs[i].Timestamp,
			Time:      errs[i].Timestamp.Format("15:04:05"),
			Error:     errs[i].Content(),
		})
	}

	var stamps []time.Time
	tagCounts := make(map[string]int)
	var tagOrder []string
	for _, a := range actions {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		r.TotalActions++
		stamps = append(stamps, a.Timestamp)
		tag := TagAction(a.Command)
		if _, seen := tagCounts[tag]; !seen {
			tagOrder = append(tagOrder, tag)
		}
		tagCounts[tag]++
	}

	for _, tag := range tagOrder {
		r.MostCommonActions = append(r.MostCommonActions, ActionCount{Action: tag, Count: tagCounts[tag]})
	}
	sort.SliceStable(r.MostCommonActions, func(i, j int) bool {
		return r.MostCommonActions[i].Count > r.MostCommonActions[j].Count
	})
	if len(r.MostCommonActions) > maxTopActions {
		r.MostCommonActions = r.MostCommonActions[:maxTopActions]
	}

	r.AverageSecondsBetweenActions = meanGap(stamps)
	r.Recommendations = recommend(r, th)
	return r
}

// meanGap is nil for fewer than two timestamps.
func meanGap(stamps []time.Time) *float64 {
	if len(stamps) < 2 {
		return nil
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	var total float64
	for i := 1; i < len(stamps); i++ {
		total += stamps[i].Sub(stamps[i-1]).Seconds()
	}
	avg := total / float64(len(stamps)-1)
	return &avg
}

func recommend(r *Report, th Thresholds) []string {
	out := []string{}
	if r.ErrorCount > th.HighErrorCount {
		out = append(out, fmt.Sprintf(
			"High error rate detected (%d errors in %d minutes). Review recent_errors to learn what syntax the operator struggled with.",
			r.ErrorCount, r.TimeWindowMinutes))
	}
	if r.AverageSecondsBetweenActions != nil && *r.AverageSecondsBetweenActions < th.RapidGapSeconds && r.TotalActions > th.RapidMinActions {
		out = append(out,
			"Operator is working rapidly. They may be using keyboard shortcuts or efficient workflows worth learning.")
	}
	if len(r.MostCommonActions) > 0 && r.TotalActions >= th.DominanceMinActions {
		top := r.MostCommonActions[0]
		if top.Action != TagOther && float64(top.Count)/float64(r.TotalActions) > th.DominanceRatio {
			out = append(out, fmt.Sprintf(
				"Operator focused on %s work (%d of %d actions). They may have established workflows for it worth learning.",
				top.Action, top.Count, r.TotalActions))
		}
	}
	return out
}

// GenerateReportSummary renders the report as markdown for people and LLMs.
func (r *Report) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Operator insights (last %d min)\n\n", r.TimeWindowMinutes)
	fmt.Fprintf(&b, "- Feedback messages: %d\n", r.TotalFeedbackMessages)
	fmt.Fprintf(&b, "- Operator actions: %d\n", r.TotalActions)
	fmt.Fprintf(&b, "- Errors: %d\n", r.ErrorCount)
	if r.AverageSecondsBetweenActions != nil {
		fmt.Fprintf(&b, "- Average seconds between actions: %.2f\n", *r.AverageSecondsBetweenActions)
	}
	b.WriteString("\n")

	if len(r.FeedbackByCategory) > 0 {
		b.WriteString("## Feedback by category\n\n")
		cats := make([]string, 0, len(r.FeedbackByCategory))
		for c := range r.FeedbackByCategory {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(&b, "- %s: %d\n", c, r.FeedbackByCategory[feedback.Category(c)])
		}
		b.WriteString("\n")
	}

	if len(r.MostCommonActions) > 0 {
		b.WriteString("## Most common actions\n\n")
		for _, a := range r.MostCommonActions {
			fmt.Fprintf(&b, "- %s: %d\n", a.Action, a.Count)
		}
		b.WriteString("\n")
	}

	if len(r.RecentErrors) > 0 {
		b.WriteString("## Recent errors\n\n")
		for _, e := range r.RecentErrors {
			fmt.Fprintf(&b, "- %s %s\n", e.Time, e.Error)
		}
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return b.String()
}

func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
