package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

// Refresher pulls the remote feed into the cache.
type Refresher interface {
	Refresh(ctx context.Context) ([]feed.Item, error)
}

// FeedRefreshHandler returns the MCP tool handler for the "feed-refresh" tool.
func FeedRefreshHandler(r Refresher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := req.GetString("format", FormatMarkdown)
		if format != FormatMarkdown && format != FormatText {
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
		}
		items, err := r.Refresh(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		header := fmt.Sprintf("Cached %d items.", len(items))
		if len(items) == 0 {
			return mcp.NewToolResultText(header), nil
		}
		return mcp.NewToolResultText(header + "\n\n" + formatItems(items, format)), nil
	}
}
