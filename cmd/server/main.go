package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/feed-mcp/internal/cache"
	"github.com/leonardcser/feed-mcp/internal/config"
	"github.com/leonardcser/feed-mcp/internal/feedapi"
	"github.com/leonardcser/feed-mcp/internal/logger"
	"github.com/leonardcser/feed-mcp/internal/refresh"
	tools "github.com/leonardcser/feed-mcp/internal/tools"
	web "github.com/leonardcser/feed-mcp/internal/web"
)

const storeBinary = "feed-mcp-store"

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting Feed MCP server")

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireFeedURL()
	}
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	// Connect to the store daemon; start it if needed, then connect.
	logger.Infof("Attempting to connect to feed store at %s", cfg.StoreSocket)
	client := cache.NewClient(cfg.StoreSocket)
	if err := client.Ping(); err != nil {
		logger.Warnf("Failed to connect to feed store: %v, attempting to start daemon", err)
		if startErr := startStoreDaemon(); startErr != nil {
			logger.Errorf("Failed to start feed store: %v", startErr)
		} else {
			logger.Infof("Feed store started successfully")
		}
		// wait for socket to appear
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if err = client.Ping(); err == nil {
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
		if err != nil {
			logger.Errorf("Failed to connect to feed store after startup attempt: %v", err)
			panic(err)
		}
	}
	logger.Infof("Successfully connected to feed store")

	local := cache.NewLocalFeedLoader(client, cache.SystemClock)
	remote := feedapi.NewRemoteFeedLoader(cfg.FeedURL, web.NewClient(cfg.RequestTimeout))
	refresher := refresh.New(remote, local)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := local.ValidateCache(ctx); err != nil {
		logger.Warnf("Startup cache validation did not finish: %v", err)
	}
	cancel()

	s := server.NewMCPServer(
		"Feed MCP",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	logger.Infof("Created MCP server instance")

	formatArg := mcp.WithString("format",
		mcp.Enum(tools.FormatMarkdown, tools.FormatText),
		mcp.Description("Output format, markdown (default) or text"),
	)

	toolLoad := mcp.NewTool("feed-load",
		mcp.WithDescription(multiline(
			"Returns the locally cached image feed",
			"\nUsage notes:",
			"- Cached items are served for up to 7 days after they were saved",
			"- An empty or expired cache returns no items rather than an error",
			"- Call feed-refresh to pull the latest feed from the remote API",
		)),
		formatArg,
	)
	s.AddTool(toolLoad, tools.FeedLoadHandler(local))
	logger.Infof("Registered feed-load tool")

	toolRefresh := mcp.NewTool("feed-refresh",
		mcp.WithDescription(multiline(
			"Fetches the feed from the remote API and replaces the local cache",
			"\nUsage notes:",
			"- The previous cache is removed before the new feed is written",
			"- If the remote API is unreachable the cache is left unchanged",
		)),
		formatArg,
	)
	s.AddTool(toolRefresh, tools.FeedRefreshHandler(refresher))
	logger.Infof("Registered feed-refresh tool")

	toolValidate := mcp.NewTool("feed-validate",
		mcp.WithDescription("Removes the local feed cache if it cannot be read or has expired"),
	)
	s.AddTool(toolValidate, tools.FeedValidateHandler(local))
	logger.Infof("Registered feed-validate tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func startStoreDaemon() error {
	// 1) Try store binary next to this server executable (works with absolute invocation)
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), storeBinary)
		if _, statErr := os.Stat(sibling); statErr == nil {
			return spawn(sibling)
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath(storeBinary); err == nil {
		return spawn(path)
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./" + storeBinary); err == nil {
		return spawn("./" + storeBinary)
	}

	return exec.ErrNotFound
}

func spawn(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	return cmd.Start()
}
