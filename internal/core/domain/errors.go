package domain

import "go.trai.ch/zerr"

var (
	// ErrTargetAlreadyExists is returned when a target name is registered twice.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrInvalidTargetName is returned when a target name cannot be used as a file name.
	ErrInvalidTargetName = zerr.New("target name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrInvalidCallback is returned when an executable is registered without a callback.
	ErrInvalidCallback = zerr.New("executable callback must be a function")

	// ErrNotCallable is returned when a library export is not a function.
	ErrNotCallable = zerr.New("library export is not callable")

	// ErrTargetNotFound is returned when a requested target is not registered.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNotALibrary is returned when a call is made on a target that is not a library.
	ErrNotALibrary = zerr.New("target is not a library")

	// ErrExportNotFound is returned when a library does not export the requested function.
	ErrExportNotFound = zerr.New("library export not found")

	// ErrCallbackFailed is returned when an executable callback or library export fails.
	ErrCallbackFailed = zerr.New("build callback failed")

	// ErrScriptNotFound is returned when the build script does not exist.
	ErrScriptNotFound = zerr.New("build script not found")

	// ErrScriptLoadFailed is returned when the build script cannot be parsed.
	ErrScriptLoadFailed = zerr.New("failed to load build script")

	// ErrScriptFailed is returned when the build script raises an error while running.
	ErrScriptFailed = zerr.New("build script failed")

	// ErrMissingEntryPoint is returned when an executable source has no main function.
	ErrMissingEntryPoint = zerr.New("source has no main function")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrCompileFailed is returned when a source file does not compile.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrEvaluationFailed is returned when compile-time evaluation fails.
	ErrEvaluationFailed = zerr.New("compile-time evaluation failed")

	// ErrAssemblyWriteFailed is returned when the assembly output cannot be written.
	ErrAssemblyWriteFailed = zerr.New("failed to write assembly")

	// ErrLinkFailed is returned when the configured link command fails.
	ErrLinkFailed = zerr.New("link command failed")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be parsed.
	ErrConfigEnvFailed = zerr.New("failed to parse environment configuration")

	// ErrUnsupportedVersion is returned when pave.yaml declares an unknown schema version.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrInvalidJobs is returned when the configured parallelism is negative.
	ErrInvalidJobs = zerr.New("jobs must not be negative")

	// ErrBuildFailed is returned when a build does not complete.
	ErrBuildFailed = zerr.New("build failed")

	// ErrTargetFailed is returned when a single target fails to build.
	ErrTargetFailed = zerr.New("target build failed")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")
)
