// Package validate checks MCP server projects for compliance: expected
// project layout, tool-definition manifests, and the response shapes the
// protocol requires.
package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Issue is a single validation finding
type Issue struct {
	Level    string // "error" or "warning"
	Category string
	Message  string
}

// Report collects validation issues. Error/warning splits and validity are
// derived from the issue list.
type Report struct {
	Issues []Issue
}

// AddError records an error-level issue
func (r *Report) AddError(category, message string) {
	r.Issues = append(r.Issues, Issue{Level: "error", Category: category, Message: message})
}

// AddWarning records a warning-level issue
func (r *Report) AddWarning(category, message string) {
	r.Issues = append(r.Issues, Issue{Level: "warning", Category: category, Message: message})
}

// Errors returns the error-level issues
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Level == "error" {
			out = append(out, i)
		}
	}
	return out
}

// Warnings returns the warning-level issues
func (r *Report) Warnings() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Level == "warning" {
			out = append(out, i)
		}
	}
	return out
}

// IsValid reports whether the report contains no errors
func (r *Report) IsValid() bool {
	return len(r.Errors()) == 0
}

// ProjectStructure validates that a directory has the expected MCP server
// project layout.
func ProjectStructure(projectDir string) *Report {
	report := &Report{}

	if _, err := os.Stat(filepath.Join(projectDir, "pyproject.toml")); err != nil {
		report.AddError("structure", "Missing pyproject.toml")
	}

	srcDir := filepath.Join(projectDir, "src")
	if _, err := os.Stat(srcDir); err != nil {
		report.AddError("structure", "Missing src/ directory")
		return report
	}

	pkg := findPackage(srcDir)
	if pkg == "" {
		report.AddError("structure", "No Python package found in src/")
		return report
	}

	for _, f := range []string{"server.py", "tools.py"} {
		if _, err := os.Stat(filepath.Join(pkg, f)); err != nil {
			report.AddError("structure", fmt.Sprintf("Missing %s in package", f))
		}
	}

	for _, f := range []string{"README.md", "Dockerfile", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(projectDir, f)); err != nil {
			report.AddWarning("structure", fmt.Sprintf("Missing recommended file: %s", f))
		}
	}

	return report
}

// findPackage returns the first directory under src containing an
// __init__.py, or "".
func findPackage(srcDir string) string {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(srcDir, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "__init__.py")); err == nil {
			return dir
		}
	}
	return ""
}

// ToolDefinition is one tool entry in a project's tools manifest
type ToolDefinition struct {
	Name        string                 `yaml:"name" json:"name"`
	Description string                 `yaml:"description" json:"description"`
	InputSchema map[string]interface{} `yaml:"inputSchema" json:"inputSchema"`
}

// LoadToolManifest reads a tools manifest. YAML is a superset of JSON, so
// both tools.yaml and tools.json parse through the same decoder.
func LoadToolManifest(path string) ([]ToolDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool manifest: %w", err)
	}

	var tools []ToolDefinition
	if err := yaml.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("failed to parse tool manifest: %w", err)
	}
	return tools, nil
}

// Tools validates a list of tool definitions against the MCP tool schema
// requirements: name, description, and an object inputSchema, with no
// duplicate names.
func Tools(tools []ToolDefinition) *Report {
	report := &Report{}

	if len(tools) == 0 {
		report.AddWarning("tools", "No tools defined")
		return report
	}

	seen := map[string]bool{}
	for i, tool := range tools {
		label := tool.Name
		if label == "" {
			label = "?"
		}

		if tool.Name == "" {
			report.AddError("tools", fmt.Sprintf("Tool #%d (%s): name is required", i, label))
		}
		if tool.Description == "" {
			report.AddError("tools", fmt.Sprintf("Tool #%d (%s): description is required", i, label))
		}
		if tool.InputSchema == nil {
			report.AddError("tools", fmt.Sprintf("Tool #%d (%s): inputSchema is required", i, label))
		} else if schemaType, _ := tool.InputSchema["type"].(string); schemaType != "object" {
			report.AddError("tools", fmt.Sprintf("Tool #%d (%s): inputSchema.type must be \"object\"", i, label))
		}

		if tool.Name != "" {
			if seen[tool.Name] {
				report.AddError("tools", fmt.Sprintf("Duplicate tool name: %s", tool.Name))
			}
			seen[tool.Name] = true
		}
	}

	return report
}

// InitializeResult validates the result of an initialize request
func InitializeResult(result map[string]interface{}) *Report {
	report := &Report{}

	if _, ok := result["protocolVersion"].(string); !ok {
		report.AddError("initialize", "protocolVersion must be a string")
	}
	if _, ok := result["capabilities"].(map[string]interface{}); !ok {
		report.AddError("initialize", "capabilities must be an object")
	}

	info, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		report.AddError("initialize", "serverInfo must be an object")
		return report
	}
	if _, ok := info["name"].(string); !ok {
		report.AddError("initialize", "serverInfo.name must be a string")
	}
	if _, ok := info["version"].(string); !ok {
		report.AddError("initialize", "serverInfo.version must be a string")
	}

	return report
}

// ToolResult validates the result of a tools/call request
func ToolResult(result map[string]interface{}) *Report {
	report := &Report{}

	content, ok := result["content"].([]interface{})
	if !ok {
		report.AddError("tool_result", "content must be a list")
		return report
	}

	for i, item := range content {
		entry, ok := item.(map[string]interface{})
		if !ok {
			report.AddError("tool_result", fmt.Sprintf("content[%d] must be an object", i))
			continue
		}
		switch entry["type"] {
		case "text", "image", "resource":
		default:
			report.AddError("tool_result", fmt.Sprintf("content[%d].type must be text, image, or resource", i))
		}
	}

	return report
}
