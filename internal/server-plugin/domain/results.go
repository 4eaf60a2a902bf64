package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// TextToolResult wraps a plain message as a successful tool result.
func TextToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// JSONToolResult serializes v as the tool result payload.
func JSONToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorToolResult(fmt.Sprintf("Failed to serialize result: %v", err)), nil
	}
	return TextToolResult(string(data)), nil
}

// ErrorToolResult reports a user-facing operational failure. The error
// travels inside the result, not as a protocol fault.
func ErrorToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
		IsError: true,
	}
}
