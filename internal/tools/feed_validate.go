package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Validator evicts an unreadable or expired cache.
type Validator interface {
	ValidateCache(ctx context.Context) error
}

// FeedValidateHandler returns the MCP tool handler for the "feed-validate" tool.
func FeedValidateHandler(v Validator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := v.ValidateCache(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Feed cache validated."), nil
	}
}
