// demo-server is a small conformant MCP server used as a known-good
// target for the test suite (mcp-forge test --cmd demo-server).
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	var (
		name    = flag.String("name", "demo-server", "Server name reported in initialize")
		version = flag.String("version", "0.1.0", "Server version reported in initialize")
	)
	flag.Parse()

	s := server.NewMCPServer(
		*name,
		*version,
		server.WithToolCapabilities(true),
	)

	echoTool := mcp.NewTool("echo",
		mcp.WithDescription("Echo the query back to the caller"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to echo"),
		),
	)
	s.AddTool(echoTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("echo: " + query), nil
	})

	upperTool := mcp.NewTool("uppercase",
		mcp.WithDescription("Uppercase the given text"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to transform"),
		),
	)
	s.AddTool(upperTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(strings.ToUpper(query)), nil
	})

	reverseTool := mcp.NewTool("reverse",
		mcp.WithDescription("Reverse the given text"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to reverse"),
		),
	)
	s.AddTool(reverseTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		runes := []rune(query)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return mcp.NewToolResultText(string(runes)), nil
	})

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
