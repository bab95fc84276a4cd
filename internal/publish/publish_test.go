package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryURL(t *testing.T) {
	tests := []struct {
		repository string
		want       string
		wantErr    bool
	}{
		{repository: "pypi", want: PyPIURL},
		{repository: "", want: PyPIURL},
		{repository: "testpypi", want: TestPyPIURL},
		{repository: "rubygems", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.repository, func(t *testing.T) {
			url, err := RepositoryURL(tt.repository)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestRun_DryRunStopsAfterBuild(t *testing.T) {
	// "true" accepts the -m build arguments and exits 0; with DryRun set
	// no upload is attempted, so an invalid repository never surfaces.
	err := Run(Options{Dir: t.TempDir(), Python: "true", DryRun: true, Repository: "rubygems"})
	require.NoError(t, err)
}

func TestRun_BuildFailure(t *testing.T) {
	err := Run(Options{Dir: t.TempDir(), Python: "false", DryRun: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
}

func TestRun_UploadRejectsUnknownRepository(t *testing.T) {
	err := Run(Options{Dir: t.TempDir(), Python: "true", Repository: "rubygems"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported repository")
}

func TestRun_MissingInterpreter(t *testing.T) {
	err := Run(Options{Dir: t.TempDir(), Python: "/nonexistent/python"})
	require.Error(t, err)
}
