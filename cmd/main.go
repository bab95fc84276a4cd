// mcp-forge - scaffold, test, and publish MCP servers.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mcp-forge/internal/config"
	"mcp-forge/internal/publish"
	"mcp-forge/internal/repl"
	"mcp-forge/internal/scaffold"
	"mcp-forge/internal/tester"
	"mcp-forge/internal/validate"
)

const version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:          "mcp-forge",
	Short:        "Scaffold, test, and publish MCP servers",
	Long:         "mcp-forge scaffolds MCP server projects, runs a conformance test suite against running servers over stdio JSON-RPC, validates project structure, and publishes packages.",
	Version:      version,
	SilenceUsage: true,
}

var newCmd = &cobra.Command{
	Use:     "new <name>",
	Short:   "Create a new MCP server project",
	Example: "  mcp-forge new my-server --tools weather,calculator",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		tools, _ := cmd.Flags().GetString("tools")
		resources, _ := cmd.Flags().GetString("resources")
		description, _ := cmd.Flags().GetString("description")
		author, _ := cmd.Flags().GetString("author")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		fmt.Printf("Forging new MCP server: %s\n\n", name)

		root, err := scaffold.Project(scaffold.Params{
			Name:        name,
			Description: description,
			Author:      author,
			Tools:       splitCSV(tools),
			Resources:   splitCSV(resources),
		}, outputDir)
		if err != nil {
			return err
		}

		fmt.Printf("Project created at %s\n\n", root)
		fmt.Println("Generated structure:")
		if err := scaffold.PrintTree(os.Stdout, root, "  "); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("  cd %s\n", name)
		fmt.Println("  pip install -e .")
		fmt.Printf("  mcp-forge test --cmd 'python -m %s.server'\n", scaffold.SnakeCase(name))
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:     "test",
	Short:   "Run the conformance test suite against an MCP server",
	Example: "  mcp-forge test --cmd 'python -m my_server.server'",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmdline, _ := cmd.Flags().GetString("cmd")
		cwd, _ := cmd.Flags().GetString("cwd")
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		if cmdline == "" {
			cmdline = cfg.Tester.Command
		}
		if cmdline == "" {
			return fmt.Errorf("no server command: pass --cmd or set tester.command in the config")
		}
		if cwd == "" {
			cwd = cfg.Tester.Dir
		}

		fmt.Printf("Testing MCP server: %s\n\n", cmdline)

		report := tester.Run(cfg, splitCommand(cmdline), cwd)
		if verbose {
			report.PrintVerbose(os.Stdout)
		} else {
			report.Print(os.Stdout)
		}

		if report.Failed() > 0 {
			os.Exit(1)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:     "validate <project-dir>",
	Short:   "Validate an MCP server project for compliance",
	Example: "  mcp-forge validate ./my-server",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("project directory not found: %s", dir)
		}

		fmt.Printf("Validating: %s\n\n", filepath.Base(dir))

		report := validate.ProjectStructure(dir)

		// A tools manifest is optional; validate it when present
		for _, manifest := range []string{"tools.yaml", "tools.json"} {
			path := filepath.Join(dir, manifest)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			tools, err := validate.LoadToolManifest(path)
			if err != nil {
				report.AddError("tools", err.Error())
				continue
			}
			report.Issues = append(report.Issues, validate.Tools(tools).Issues...)
		}

		for _, issue := range report.Errors() {
			fmt.Printf("  ✗ %s\n", issue.Message)
		}
		for _, issue := range report.Warnings() {
			fmt.Printf("  ! %s\n", issue.Message)
		}

		if !report.IsValid() {
			fmt.Printf("\n  %d error(s) found\n", len(report.Errors()))
			os.Exit(1)
		}

		fmt.Println("  ✓ Project structure is valid")
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:     "publish [project-dir]",
	Short:   "Build and publish an MCP server package",
	Example: "  mcp-forge publish ./my-server --repository testpypi",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("project directory not found: %s", dir)
		}

		repository, _ := cmd.Flags().GetString("repository")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if repository == "" {
			repository = cfg.Publish.Repository
		}

		fmt.Printf("Publishing: %s\n\n", filepath.Base(dir))
		fmt.Println("Building package...")

		if err := publish.Run(publish.Options{
			Dir:        dir,
			Repository: repository,
			DryRun:     dryRun,
			Python:     cfg.Publish.Python,
		}); err != nil {
			return err
		}

		if dryRun {
			fmt.Println("Package built successfully (dry run, skipping upload)")
			return nil
		}
		fmt.Printf("Published to %s\n", repository)
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:     "repl",
	Short:   "Open an interactive JSON-RPC console against an MCP server",
	Example: "  mcp-forge repl --cmd 'python -m my_server.server'",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmdline, _ := cmd.Flags().GetString("cmd")
		cwd, _ := cmd.Flags().GetString("cwd")
		if cmdline == "" {
			return fmt.Errorf("--cmd is required")
		}

		transport := tester.NewTransport(splitCommand(cmdline), cwd)
		if err := transport.Start(); err != nil {
			return err
		}
		defer transport.Stop()

		repl.Start(transport, tester.NewClient(transport))
		return nil
	},
}

// loadConfig returns the file-backed config when a path is given, the
// defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitCommand splits a shell-like command line on whitespace
func splitCommand(cmdline string) []string {
	return strings.Fields(cmdline)
}

// splitCSV splits a comma-separated flag value, dropping empty entries
func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	newCmd.Flags().StringP("tools", "t", "", "Comma-separated list of tool names to scaffold")
	newCmd.Flags().StringP("resources", "r", "", "Comma-separated list of resource URI patterns")
	newCmd.Flags().StringP("description", "d", "", "Project description")
	newCmd.Flags().StringP("author", "a", "", "Author name")
	newCmd.Flags().StringP("output-dir", "o", ".", "Output directory")

	testCmd.Flags().String("cmd", "", "Command to start the MCP server (e.g. 'python -m my_server.server')")
	testCmd.Flags().String("cwd", "", "Working directory for the server")
	testCmd.Flags().String("config", "", "Path to a forge config file")
	testCmd.Flags().BoolP("verbose", "v", false, "Print raw responses for each probe")

	publishCmd.Flags().String("repository", "", "Target repository (pypi or testpypi)")
	publishCmd.Flags().Bool("dry-run", false, "Build but do not upload")
	publishCmd.Flags().String("config", "", "Path to a forge config file")

	replCmd.Flags().String("cmd", "", "Command to start the MCP server")
	replCmd.Flags().String("cwd", "", "Working directory for the server")

	rootCmd.AddCommand(newCmd, testCmd, validateCmd, publishCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
