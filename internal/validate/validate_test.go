package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject lays out a minimal valid project under a temp dir
func writeProject(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# placeholder\n"), 0644))
	}
	return dir
}

var fullProject = []string{
	"pyproject.toml",
	"README.md",
	"Dockerfile",
	".gitignore",
	"src/my_server/__init__.py",
	"src/my_server/server.py",
	"src/my_server/tools.py",
}

func TestProjectStructure_Valid(t *testing.T) {
	dir := writeProject(t, fullProject...)

	report := ProjectStructure(dir)
	assert.True(t, report.IsValid())
	assert.Empty(t, report.Warnings())
}

func TestProjectStructure_Findings(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		errMsg   string
		warnings int
	}{
		{
			name:   "missing pyproject",
			files:  []string{"README.md", "Dockerfile", ".gitignore", "src/p/__init__.py", "src/p/server.py", "src/p/tools.py"},
			errMsg: "Missing pyproject.toml",
		},
		{
			name:   "missing src",
			files:  []string{"pyproject.toml"},
			errMsg: "Missing src/ directory",
		},
		{
			name:   "no package",
			files:  []string{"pyproject.toml", "src/stray.py"},
			errMsg: "No Python package found in src/",
		},
		{
			name:   "missing server module",
			files:  []string{"pyproject.toml", "README.md", "Dockerfile", ".gitignore", "src/p/__init__.py", "src/p/tools.py"},
			errMsg: "Missing server.py in package",
		},
		{
			name:     "missing recommended files",
			files:    []string{"pyproject.toml", "src/p/__init__.py", "src/p/server.py", "src/p/tools.py"},
			warnings: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.files...)
			report := ProjectStructure(dir)

			if tt.errMsg != "" {
				require.False(t, report.IsValid())
				found := false
				for _, issue := range report.Errors() {
					if issue.Message == tt.errMsg {
						found = true
					}
				}
				assert.True(t, found, "expected error %q, got %v", tt.errMsg, report.Errors())
			} else {
				assert.True(t, report.IsValid())
			}
			if tt.warnings > 0 {
				assert.Len(t, report.Warnings(), tt.warnings)
			}
		})
	}
}

func TestTools_Valid(t *testing.T) {
	tools := []ToolDefinition{
		{Name: "weather", Description: "Weather lookups", InputSchema: map[string]interface{}{"type": "object"}},
	}

	report := Tools(tools)
	assert.True(t, report.IsValid())
}

func TestTools_Findings(t *testing.T) {
	tests := []struct {
		name   string
		tools  []ToolDefinition
		errMsg string
	}{
		{
			name:   "missing name",
			tools:  []ToolDefinition{{Description: "d", InputSchema: map[string]interface{}{"type": "object"}}},
			errMsg: "name is required",
		},
		{
			name:   "missing description",
			tools:  []ToolDefinition{{Name: "t", InputSchema: map[string]interface{}{"type": "object"}}},
			errMsg: "description is required",
		},
		{
			name:   "missing schema",
			tools:  []ToolDefinition{{Name: "t", Description: "d"}},
			errMsg: "inputSchema is required",
		},
		{
			name:   "non-object schema",
			tools:  []ToolDefinition{{Name: "t", Description: "d", InputSchema: map[string]interface{}{"type": "array"}}},
			errMsg: "inputSchema.type must be \"object\"",
		},
		{
			name: "duplicate names",
			tools: []ToolDefinition{
				{Name: "t", Description: "d", InputSchema: map[string]interface{}{"type": "object"}},
				{Name: "t", Description: "d", InputSchema: map[string]interface{}{"type": "object"}},
			},
			errMsg: "Duplicate tool name: t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Tools(tt.tools)
			require.False(t, report.IsValid())

			found := false
			for _, issue := range report.Errors() {
				if strings.Contains(issue.Message, tt.errMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected %q in %v", tt.errMsg, report.Errors())
		})
	}
}

func TestTools_EmptyIsWarning(t *testing.T) {
	report := Tools(nil)
	assert.True(t, report.IsValid())
	assert.Len(t, report.Warnings(), 1)
}

func TestLoadToolManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	content := `- name: weather
  description: Weather lookups
  inputSchema:
    type: object
    properties:
      query:
        type: string
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tools, err := LoadToolManifest(path)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "weather", tools[0].Name)
	assert.True(t, Tools(tools).IsValid())
}

func TestLoadToolManifest_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.json")
	content := `[{"name": "calc", "description": "Calculator", "inputSchema": {"type": "object"}}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tools, err := LoadToolManifest(path)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "calc", tools[0].Name)
}

func TestInitializeResult(t *testing.T) {
	valid := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"serverInfo":      map[string]interface{}{"name": "s", "version": "1"},
	}
	assert.True(t, InitializeResult(valid).IsValid())

	missingInfo := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
	}
	report := InitializeResult(missingInfo)
	require.False(t, report.IsValid())
	assert.Contains(t, report.Errors()[0].Message, "serverInfo")
}

func TestToolResult(t *testing.T) {
	valid := map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{"type": "text", "text": "hi"},
		},
	}
	assert.True(t, ToolResult(valid).IsValid())

	badType := map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{"type": "video"},
		},
	}
	assert.False(t, ToolResult(badType).IsValid())

	noContent := map[string]interface{}{}
	assert.False(t, ToolResult(noContent).IsValid())
}
