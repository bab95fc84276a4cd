// Package repl provides an interactive JSON-RPC console against a running
// MCP server, for poking at a server by hand before running the full
// conformance suite.
package repl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	prompt "github.com/c-bata/go-prompt"

	"mcp-forge/internal/jsonutil"
	"mcp-forge/internal/protocol"
	"mcp-forge/internal/tester"
)

var (
	exiting   = false
	exitMutex sync.Mutex
)

// Start runs the interactive console until exit/quit. Input is either
// "<method> [params-json]" or a raw JSON-RPC request body.
func Start(transport *tester.Transport, client *tester.Client) {
	fmt.Println("mcp-forge interactive console.")
	fmt.Println("Type a method name (with optional JSON params) to send a request.")
	fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to exit.")

	p := prompt.New(
		func(in string) {
			if !execute(transport, client, in) {
				exitMutex.Lock()
				if exiting {
					exitMutex.Unlock()
					return
				}
				exiting = true
				exitMutex.Unlock()

				fmt.Println("Bye.")
				transport.Stop()
				// os.Exit avoids conflicts with go-prompt's signal handling
				os.Exit(0)
			}
		},
		completer,
		prompt.OptionPrefix("mcp> "),
		prompt.OptionTitle("mcp-forge"),
	)
	p.Run()
}

// execute handles one console line; returning false exits the loop
func execute(transport *tester.Transport, client *tester.Client, in string) bool {
	line := strings.TrimSpace(in)
	switch line {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help":
		printHelp()
		return true
	}

	method, params, err := parseInput(line)
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		return true
	}

	resp, err := client.SendRequest(method, params)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		if stderr := transport.Stderr(); stderr != "" {
			fmt.Printf("Server stderr:\n%s\n", stderr)
		}
		return true
	}

	fmt.Println(jsonutil.PrettyString(string(resp.Raw)))
	return true
}

// parseInput splits "<method> [params-json]" into its parts
func parseInput(line string) (string, interface{}, error) {
	parts := strings.SplitN(line, " ", 2)
	method := parts[0]

	if len(parts) == 1 {
		return method, nil, nil
	}

	var params map[string]interface{}
	if err := json.Unmarshal([]byte(parts[1]), &params); err != nil {
		return "", nil, fmt.Errorf("params must be a JSON object: %w", err)
	}
	return method, params, nil
}

func completer(d prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "help", Description: "Show available commands"},
		{Text: "exit", Description: "Stop the server and exit"},
		{Text: "quit", Description: "Stop the server and exit"},
	}
	for _, method := range protocol.Methods() {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        method,
			Description: "Send a " + method + " request",
		})
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  <method>                  Send a request with no params")
	fmt.Println("  <method> {\"k\": \"v\"}       Send a request with JSON params")
	fmt.Println("  help                      Show this help")
	fmt.Println("  exit, quit                Stop the server and exit")
	fmt.Println()
	fmt.Printf("Known methods: %s\n", strings.Join(protocol.Methods(), ", "))
}
