// Package config provides the configuration loader for pave.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only pave.yaml schema version understood.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file and the environment.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers pave.yaml from cwd upwards and resolves the project.
// Without a pave.yaml, cwd is the root and defaults apply.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	var pavefile Pavefile
	root := absCwd
	if configPath, ok := findConfiguration(absCwd); ok {
		if err := readAndUnmarshalYAML(configPath, &pavefile); err != nil {
			return nil, err
		}
		if err := l.validateVersion(configPath, pavefile.Version); err != nil {
			return nil, err
		}
		root = filepath.Dir(configPath)
	}

	var overrides Environment
	if err := env.Parse(&overrides); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	return resolveProject(root, pavefile, overrides)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) validateVersion(configPath, version string) error {
	switch version {
	case SupportedVersion:
		return nil
	case "":
		l.Logger.Warn(fmt.Sprintf("%s declares no version, assuming %q", configPath, SupportedVersion))
		return nil
	default:
		return zerr.With(zerr.With(domain.ErrUnsupportedVersion, "version", version), "path", configPath)
	}
}

func resolveProject(root string, file Pavefile, overrides Environment) (*domain.Project, error) {
	jobs := first(overrides.Jobs, file.Jobs)
	if jobs < 0 {
		return nil, zerr.With(domain.ErrInvalidJobs, "jobs", jobs)
	}
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}

	project := &domain.Project{
		Root:      root,
		Script:    resolvePath(root, first(overrides.Script, file.Script, domain.DefaultScriptName)),
		SourceDir: resolvePath(root, first(overrides.Sources, file.Sources, domain.DefaultSourceDir)),
		OutputDir: resolvePath(root, first(overrides.Output, file.Output, domain.DefaultOutputDir)),
		Jobs:      jobs,
		LogFormat: overrides.LogFormat,
	}

	if file.Link != nil && len(file.Link.Cmd) > 0 {
		project.Link = &domain.LinkSpec{
			Command:     file.Link.Cmd,
			Environment: file.Link.Environment,
		}
	}

	return project, nil
}

// first returns the first non-zero value.
func first[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func readAndUnmarshalYAML(path string, v any) error {
	//nolint:gosec // G304: path is discovered by walking up from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}
