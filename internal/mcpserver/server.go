package mcpserver

import (
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "eos-feedback-mcp"
	ServerVersion = "1.0.0"
)

// ToolNames lists the registered tools in registration order.
var ToolNames = []string{
	"eos_get_feedback_log",
	"eos_get_recent_errors",
	"eos_get_operator_actions",
	"eos_get_operator_insights",
	"eos_clear_feedback_log",
	"eos_get_receiver_status",
	"eos_summarize_operator_insights",
}

// NewServer creates an MCP server with every feedback tool registered.
func NewServer(tools *FeedbackTools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[0],
		Description: "Get recent OSC feedback messages from the Eos console: notifications, errors, state changes and operator actions. Oldest first.",
	}, tools.GetFeedbackLog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[1],
		Description: "Get recent error messages from the Eos console. Errors are commands the console rejected.",
	}, tools.GetRecentErrors)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[2],
		Description: "Get recent operator actions captured from OSC feedback, as command token sequences.",
	}, tools.GetOperatorActions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[3],
		Description: "Analyze operator behavior over a trailing time window: command frequency, error patterns, timing and recommendations.",
	}, tools.GetOperatorInsights)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[4],
		Description: "Clear all stored feedback messages and operator actions.",
	}, tools.ClearFeedbackLog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[5],
		Description: "Report whether the OSC feedback receiver is enabled, its state, port and packet counters.",
	}, tools.GetReceiverStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNames[6],
		Description: "Summarize operator insights as short prose. Uses the configured LLM when available, otherwise returns the markdown summary.",
	}, tools.SummarizeOperatorInsights)

	log.Printf("📋 Registered %d tools: %v", len(ToolNames), ToolNames)
	return server
}
