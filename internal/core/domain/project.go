package domain

import (
	"path/filepath"
	"strings"
)

// Project is the resolved configuration of a pave project.
// All paths are absolute.
type Project struct {
	Root      string
	Script    string
	SourceDir string
	OutputDir string
	Jobs      int
	LogFormat string
	Link      *LinkSpec
}

// LinkSpec describes the command that turns emitted assembly into a binary.
// Command arguments may contain the placeholders {asm}, {output} and {target}.
type LinkSpec struct {
	Command     []string
	Environment map[string]string
}

// SourcePath returns the source file of the named target.
func (p *Project) SourcePath(target string) string {
	return filepath.Join(p.SourceDir, target+SourceExt)
}

// AssemblyPath returns where the named target's assembly is written.
func (p *Project) AssemblyPath(target string) string {
	return filepath.Join(p.OutputDir, target+AssemblyExt)
}

// BinaryPath returns where the link command places the named target's binary.
func (p *Project) BinaryPath(target string) string {
	return filepath.Join(p.OutputDir, target)
}

// StorePath returns the build info store directory.
func (p *Project) StorePath() string {
	return filepath.Join(p.Root, DefaultStorePath())
}

// LinkCommand expands the link placeholders for the named target.
// It returns nil when no link command is configured.
func (p *Project) LinkCommand(target string) *Command {
	if p.Link == nil || len(p.Link.Command) == 0 {
		return nil
	}

	r := strings.NewReplacer(
		"{asm}", p.AssemblyPath(target),
		"{output}", p.BinaryPath(target),
		"{target}", target,
	)
	args := make([]string, len(p.Link.Command))
	for i, arg := range p.Link.Command {
		args[i] = r.Replace(arg)
	}

	return &Command{
		Name:        NewInternedString(target),
		Args:        args,
		Environment: p.Link.Environment,
		WorkingDir:  p.Root,
	}
}
