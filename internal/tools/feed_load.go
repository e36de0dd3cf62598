package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/feed-mcp/internal/feed"
	"github.com/leonardcser/feed-mcp/internal/logger"
	"github.com/leonardcser/feed-mcp/internal/render"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// FeedLoadHandler returns the MCP tool handler for the "feed-load" tool.
// It serves the cached feed; a stale or empty cache yields no items.
func FeedLoadHandler(loader feed.Loader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		format := req.GetString("format", FormatMarkdown)
		if format != FormatMarkdown && format != FormatText {
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
		}

		items, err := loader.Load(ctx)
		if err != nil {
			logger.Errorf("feed-load: %v", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatItems(items, format)), nil
	}
}

func formatItems(items []feed.Item, format string) string {
	if format == FormatText {
		return render.Text(items)
	}
	return render.Markdown(items)
}
