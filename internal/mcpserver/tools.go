// Package mcpserver exposes the feedback history and operator insights as
// MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"eos-mcp/internal/analytics"
	"eos-mcp/internal/feedback"
	"eos-mcp/internal/llm"
	"eos-mcp/internal/query"
	"eos-mcp/internal/receiver"
	"eos-mcp/internal/scheduler"
)

const timeLayout = "2006-01-02 15:04:05"

// FeedbackLogParams are the arguments of eos_get_feedback_log.
type FeedbackLogParams struct {
	Category string `json:"category,omitempty" mcp:"Filter by category: user_action, selection, cue, patch, playback, notify, error, event, signal, other"`
	Limit    int    `json:"limit,omitempty" mcp:"Maximum number of messages to return (1-500, default 50)"`
}

type RecentErrorsParams struct {
	Limit int `json:"limit,omitempty" mcp:"Maximum number of errors to return (1-500, default 20)"`
}

type OperatorActionsParams struct {
	Limit int `json:"limit,omitempty" mcp:"Maximum number of actions to return (1-200, default 50)"`
}

type InsightsParams struct {
	TimeWindowMinutes int `json:"time_window_minutes,omitempty" mcp:"Look back this many minutes for patterns (1-1440, default 60)"`
}

type EmptyParams struct{}

// messageView is the wire shape of a stored feedback message.
type messageView struct {
	Timestamp float64             `json:"timestamp"`
	Time      string              `json:"time"`
	Category  feedback.Category   `json:"category"`
	Address   string              `json:"address"`
	Args      []feedback.Argument `json:"args"`
}

type actionView struct {
	Timestamp float64  `json:"timestamp"`
	Time      string   `json:"time"`
	Address   string   `json:"address"`
	Action    []string `json:"action"`
}

// FeedbackTools implements the feedback MCP tools. Receiver and Narrator may
// be nil.
type FeedbackTools struct {
	svc      *query.Service
	rx       *receiver.Receiver
	narrator *llm.Narrator
	reports  *scheduler.Scheduler
	console  string
}

func NewFeedbackTools(svc *query.Service, rx *receiver.Receiver, narrator *llm.Narrator) *FeedbackTools {
	return &FeedbackTools{svc: svc, rx: rx, narrator: narrator}
}

// WithConsole records the console address reported by eos_get_receiver_status.
func (t *FeedbackTools) WithConsole(addr string) *FeedbackTools {
	t.console = addr
	return t
}

// WithReports attaches the report scheduler so its status is reported.
func (t *FeedbackTools) WithReports(s *scheduler.Scheduler) *FeedbackTools {
	t.reports = s
	return t
}

func (t *FeedbackTools) GetFeedbackLog(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[FeedbackLogParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	limit := orDefault(args.Limit, query.DefaultFeedbackLimit)

	log.Printf("📜 MCP Server: feedback log (category=%q, limit=%d)", args.Category, limit)

	messages, err := t.svc.List(args.Category, limit)
	if err != nil {
		return errorResult(err), nil
	}

	filter := args.Category
	if filter == "" {
		filter = "all"
	}
	return jsonResult(map[string]interface{}{
		"success":         true,
		"count":           len(messages),
		"category_filter": filter,
		"messages":        messageViews(messages),
	}, map[string]interface{}{
		"count":   len(messages),
		"success": true,
	})
}

func (t *FeedbackTools) GetRecentErrors(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[RecentErrorsParams]) (*mcp.CallToolResultFor[any], error) {
	limit := orDefault(params.Arguments.Limit, query.DefaultErrorsLimit)

	errs, err := t.svc.ListErrors(limit)
	if err != nil {
		return errorResult(err), nil
	}

	return jsonResult(map[string]interface{}{
		"success":     true,
		"error_count": len(errs),
		"errors":      messageViews(errs),
		"note":        "These are commands or actions that the console rejected",
	}, map[string]interface{}{
		"error_count": len(errs),
		"success":     true,
	})
}

func (t *FeedbackTools) GetOperatorActions(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[OperatorActionsParams]) (*mcp.CallToolResultFor[any], error) {
	limit := orDefault(params.Arguments.Limit, query.DefaultActionsLimit)

	actions, err := t.svc.ListActions(limit)
	if err != nil {
		return errorResult(err), nil
	}

	views := make([]actionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, actionView{
			Timestamp: unixSeconds(a.Timestamp),
			Time:      a.Timestamp.Format(timeLayout),
			Address:   a.Topic,
			Action:    nonNil(a.Command),
		})
	}

	return jsonResult(map[string]interface{}{
		"success":      true,
		"action_count": len(views),
		"actions":      views,
		"note":         "These are actions performed by operators on the console",
	}, map[string]interface{}{
		"action_count": len(views),
		"success":      true,
	})
}

func (t *FeedbackTools) GetOperatorInsights(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[InsightsParams]) (*mcp.CallToolResultFor[any], error) {
	report := t.svc.Insights(orDefault(params.Arguments.TimeWindowMinutes, analytics.DefaultWindowMinutes))

	log.Printf("🧠 MCP Server: insights over %d min (%d actions, %d messages)",
		report.TimeWindowMinutes, report.TotalActions, report.TotalFeedbackMessages)

	return jsonResult(map[string]interface{}{
		"success":  true,
		"insights": report,
	}, insightsMeta(report))
}

func (t *FeedbackTools) ClearFeedbackLog(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EmptyParams]) (*mcp.CallToolResultFor[any], error) {
	t.svc.Reset()
	log.Printf("🧹 MCP Server: feedback logs cleared")

	return jsonResult(map[string]interface{}{
		"success": true,
		"message": "All feedback logs cleared",
	}, map[string]interface{}{"success": true})
}

func (t *FeedbackTools) GetReceiverStatus(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EmptyParams]) (*mcp.CallToolResultFor[any], error) {
	status := map[string]interface{}{
		"success": true,
		"enabled": t.rx != nil,
		"state":   receiver.StateStopped.String(),
	}
	if t.console != "" {
		status["console"] = t.console
	}
	if t.reports != nil {
		status["reports"] = t.reports.Status()
	}
	if t.rx != nil {
		status["state"] = t.rx.State().String()
		status["port"] = t.rx.Port()
		if addr := t.rx.Addr(); addr != nil {
			status["address"] = addr.String()
		}
		status["stats"] = t.rx.Stats()
	} else {
		status["note"] = "OSC receive is not enabled; set EOS_RX_ENABLED=true to collect feedback"
	}

	return jsonResult(status, map[string]interface{}{
		"enabled": status["enabled"],
		"state":   status["state"],
		"success": true,
	})
}

func (t *FeedbackTools) SummarizeOperatorInsights(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[InsightsParams]) (*mcp.CallToolResultFor[any], error) {
	report := t.svc.Insights(orDefault(params.Arguments.TimeWindowMinutes, analytics.DefaultWindowMinutes))

	n, err := t.narrator.Narrate(ctx, report)
	if err != nil {
		return errorResult(err), nil
	}

	meta := insightsMeta(report)
	meta["narrated"] = n.Narrated
	if n.Narrated {
		log.Printf("🤖 MCP Server: narrated insights with %s (%d tokens)", n.Model, n.Usage.TotalTokens)
		meta["model"] = n.Model
		meta["prompt_tokens"] = n.Usage.PromptTokens
		meta["completion_tokens"] = n.Usage.CompletionTokens
		meta["total_tokens"] = n.Usage.TotalTokens
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: n.Text},
		},
		Meta: meta,
	}, nil
}

func insightsMeta(r *analytics.Report) map[string]interface{} {
	return map[string]interface{}{
		"time_window_minutes": r.TimeWindowMinutes,
		"total_actions":       r.TotalActions,
		"error_count":         r.ErrorCount,
		"success":             true,
	}
}

func messageViews(messages []feedback.Message) []messageView {
	out := make([]messageView, 0, len(messages))
	for _, m := range messages {
		args := m.Arguments
		if args == nil {
			args = []feedback.Argument{}
		}
		out = append(out, messageView{
			Timestamp: unixSeconds(m.Timestamp),
			Time:      m.Timestamp.Format(timeLayout),
			Category:  m.Category,
			Address:   m.Topic,
			Args:      args,
		})
	}
	return out
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func jsonResult(payload interface{}, meta map[string]interface{}) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("failed to encode result: %w", err)), nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		Meta: meta,
	}, nil
}

func errorResult(err error) *mcp.CallToolResultFor[any] {
	meta := map[string]interface{}{"success": false}
	var ve *query.ValidationError
	if errors.As(err, &ve) {
		meta["field"] = ve.Field
	}
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("❌ %v", err)},
		},
		Meta: meta,
	}
}
