package domain

import "path/filepath"

const (
	// PaveDirName is the name of the internal metadata directory.
	PaveDirName = ".pave"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// BuildInfoFileName is the file holding every target's build info.
	BuildInfoFileName = "buildinfo.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "pave.yaml"

	// DefaultScriptName is the build script used when none is configured.
	DefaultScriptName = "pave.lua"

	// DefaultSourceDir is the directory holding target sources.
	DefaultSourceDir = "src"

	// DefaultOutputDir is the directory receiving build outputs.
	DefaultOutputDir = "build"

	// SourceExt is the extension of source files.
	SourceExt = ".pv"

	// AssemblyExt is the extension of emitted assembly files.
	AssemblyExt = ".s"

	// EntryPoint is the function evaluated when an executable is built.
	EntryPoint = "main"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the store directory relative to the project root.
// It joins .pave and store.
func DefaultStorePath() string {
	return filepath.Join(PaveDirName, StoreDirName)
}
