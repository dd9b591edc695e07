package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/internal/adapters/config"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
}

func TestLoader_Load_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))
	dir := t.TempDir()

	project, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, project.Root)
	assert.Equal(t, filepath.Join(dir, domain.DefaultScriptName), project.Script)
	assert.Equal(t, filepath.Join(dir, domain.DefaultSourceDir), project.SourceDir)
	assert.Equal(t, filepath.Join(dir, domain.DefaultOutputDir), project.OutputDir)
	assert.Equal(t, runtime.NumCPU(), project.Jobs)
	assert.Nil(t, project.Link)
}

func TestLoader_Load_Pavefile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, `
version: "1"
script: build/pave.lua
sources: pv
output: /tmp/pave-out
jobs: 3
link:
  cmd: ["cc", "-nostdlib", "{asm}", "-o", "{output}"]
  environment:
    LANG: C
`)

	project, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "build", "pave.lua"), project.Script)
	assert.Equal(t, filepath.Join(dir, "pv"), project.SourceDir)
	assert.Equal(t, "/tmp/pave-out", project.OutputDir)
	assert.Equal(t, 3, project.Jobs)
	require.NotNil(t, project.Link)
	assert.Equal(t, []string{"cc", "-nostdlib", "{asm}", "-o", "{output}"}, project.Link.Command)
	assert.Equal(t, map[string]string{"LANG": "C"}, project.Link.Environment)
}

func TestLoader_Load_DiscoversParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "version: \"1\"\n")

	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	project, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, root, project.Root)
	assert.Equal(t, filepath.Join(root, domain.DefaultScriptName), project.Script)
}

func TestLoader_Load_MissingVersionWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)
	loader := config.NewLoader(mockLogger)
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "jobs: 2\n")

	project, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, project.Jobs)
}

func TestLoader_Load_EnvironmentOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, `
version: "1"
script: from-file.lua
jobs: 8
`)
	t.Setenv("PAVE_SCRIPT", "from-env.lua")
	t.Setenv("PAVE_OUTPUT", "out")
	t.Setenv("PAVE_JOBS", "2")
	t.Setenv("PAVE_LOG_FORMAT", "json")

	project, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "from-env.lua"), project.Script)
	assert.Equal(t, filepath.Join(dir, "out"), project.OutputDir)
	assert.Equal(t, filepath.Join(dir, domain.DefaultSourceDir), project.SourceDir)
	assert.Equal(t, 2, project.Jobs)
	assert.Equal(t, "json", project.LogFormat)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		wantErr  error
		metaKey  string
		metaWant any
	}{
		{
			name:     "unsupported version",
			content:  "version: \"2\"\n",
			wantErr:  domain.ErrUnsupportedVersion,
			metaKey:  "version",
			metaWant: "2",
		},
		{
			name:    "invalid yaml",
			content: "version: [\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:     "negative jobs",
			content:  "version: \"1\"\njobs: -1\n",
			wantErr:  domain.ErrInvalidJobs,
			metaKey:  "jobs",
			metaWant: -1,
		},
		{
			name:    "malformed environment",
			content: "version: \"1\"\n",
			env:     map[string]string{"PAVE_JOBS": "many"},
			wantErr: domain.ErrConfigEnvFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := config.NewLoader(mocks.NewMockLogger(ctrl))
			dir := t.TempDir()
			createFile(t, dir, domain.ConfigFileName, tt.content)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loader.Load(dir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())

			if tt.metaKey != "" {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.metaWant, zErr.Metadata()[tt.metaKey])
			}
		})
	}
}
