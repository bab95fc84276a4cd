// Package scaffold generates complete MCP server projects from embedded
// templates and prints the resulting directory tree.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Params describes the project to generate
type Params struct {
	Name        string
	Description string
	Author      string
	Tools       []string
	Resources   []string
}

// context is the data passed to every template
type context struct {
	ProjectName string
	PkgName     string
	Title       string
	Description string
	Author      string
	Tools       []string
	Resources   []string
}

// SnakeCase converts a project name like "my-server" to "my_server"
func SnakeCase(name string) string {
	s := strings.ReplaceAll(name, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}

// TitleCase converts "my-server" to "My Server"
func TitleCase(name string) string {
	s := strings.ReplaceAll(name, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Project generates a complete MCP server project under outputDir and
// returns the path to the project root.
func Project(p Params, outputDir string) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("project name is required")
	}
	if outputDir == "" {
		outputDir = "."
	}

	pkgName := SnakeCase(p.Name)
	projectRoot := filepath.Join(outputDir, p.Name)
	srcDir := filepath.Join(projectRoot, "src", pkgName)
	testsDir := filepath.Join(projectRoot, "tests")

	for _, dir := range []string{srcDir, testsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	ctx := context{
		ProjectName: p.Name,
		PkgName:     pkgName,
		Title:       TitleCase(p.Name),
		Description: p.Description,
		Author:      p.Author,
		Tools:       p.Tools,
		Resources:   p.Resources,
	}
	if ctx.Description == "" {
		ctx.Description = fmt.Sprintf("An MCP server: %s", ctx.Title)
	}
	if ctx.Author == "" {
		ctx.Author = "Author"
	}
	if len(ctx.Tools) == 0 {
		ctx.Tools = []string{"hello"}
	}

	fileMap := map[string]string{
		"server.py.tmpl":      filepath.Join(srcDir, "server.py"),
		"tools.py.tmpl":       filepath.Join(srcDir, "tools.py"),
		"resources.py.tmpl":   filepath.Join(srcDir, "resources.py"),
		"init.py.tmpl":        filepath.Join(srcDir, "__init__.py"),
		"pyproject.toml.tmpl": filepath.Join(projectRoot, "pyproject.toml"),
		"readme.md.tmpl":      filepath.Join(projectRoot, "README.md"),
		"dockerfile.tmpl":     filepath.Join(projectRoot, "Dockerfile"),
		"gitignore.tmpl":      filepath.Join(projectRoot, ".gitignore"),
		"test.py.tmpl":        filepath.Join(testsDir, fmt.Sprintf("test_%s.py", pkgName)),
	}

	for templateName, destPath := range fileMap {
		if err := renderTemplate(templateName, destPath, ctx); err != nil {
			return "", err
		}
	}

	return projectRoot, nil
}

func renderTemplate(name, destPath string, ctx context) error {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, ctx); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
