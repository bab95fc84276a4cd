// Package publish builds and uploads MCP server packages via the external
// python build and twine tools.
package publish

import (
	"fmt"
	"os/exec"
	"strings"
)

// Repository upload endpoints
const (
	PyPIURL     = "https://upload.pypi.org/legacy/"
	TestPyPIURL = "https://test.pypi.org/legacy/"
)

// Options configures a publish run
type Options struct {
	Dir        string
	Repository string
	DryRun     bool

	// Python is the interpreter used to run build and twine
	Python string
}

// RepositoryURL maps a repository name to its upload endpoint
func RepositoryURL(repository string) (string, error) {
	switch repository {
	case "pypi", "":
		return PyPIURL, nil
	case "testpypi":
		return TestPyPIURL, nil
	default:
		return "", fmt.Errorf("unsupported repository: %s", repository)
	}
}

// Build runs "python -m build" in dir. The error includes the tool's
// combined output so build failures are actionable.
func Build(python, dir string) error {
	return runTool(dir, python, "-m", "build")
}

// Upload runs twine against the repository's upload endpoint
func Upload(python, dir, repository string) error {
	url, err := RepositoryURL(repository)
	if err != nil {
		return err
	}
	return runTool(dir, python, "-m", "twine", "upload", "--repository-url", url, "dist/*")
}

// Run builds the package and, unless DryRun is set, uploads it
func Run(opts Options) error {
	python := opts.Python
	if python == "" {
		python = "python3"
	}

	if err := Build(python, opts.Dir); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if opts.DryRun {
		return nil
	}

	if err := Upload(python, opts.Dir, opts.Repository); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

func runTool(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, msg)
	}
	return nil
}
