// Package app implements the application layer for pave.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/pave/internal/adapters/telemetry"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/pave/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scripts      ports.ScriptLoader
	compiler     ports.Compiler
	scheduler    *scheduler.Scheduler
	store        ports.BuildInfoStore
	logger       ports.Logger
	io           domain.IO
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scripts ports.ScriptLoader,
	compiler ports.Compiler,
	sched *scheduler.Scheduler,
	store ports.BuildInfoStore,
	log ports.Logger,
	out domain.IO,
) *App {
	return &App{
		configLoader: loader,
		scripts:      scripts,
		compiler:     compiler,
		scheduler:    sched,
		store:        store,
		logger:       log,
		io:           out,
	}
}

// UseJSON switches the logger to JSON output when it supports it.
func (a *App) UseJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

func (a *App) loadProject() (*domain.Project, error) {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if project.LogFormat == "json" {
		a.UseJSON(true)
	}
	return project, nil
}

func (a *App) load() (*domain.Project, *domain.Registry, error) {
	project, err := a.loadProject()
	if err != nil {
		return nil, nil, err
	}
	registry, err := a.scripts.Load(project.Script)
	if err != nil {
		return nil, nil, err
	}
	return project, registry, nil
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	NoCache bool
	// Jobs overrides the project's parallelism when positive.
	Jobs int
}

// Build runs the build script and builds the named targets, or all of them.
func (a *App) Build(ctx context.Context, targetNames []string, opts BuildOptions) error {
	project, registry, err := a.load()
	if err != nil {
		return err
	}

	tp := setupOTel(telemetry.NewBridge(a.logger))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	jobs := project.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}

	if err := a.scheduler.Run(ctx, registry, project, targetNames, jobs, opts.NoCache); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}

	a.logSummary()
	return nil
}

func (a *App) logSummary() {
	counts := make(map[domain.TargetStatus]int)
	for _, status := range a.scheduler.Statuses() {
		counts[status]++
	}
	a.logger.Info(fmt.Sprintf("build finished: %d built, %d cached",
		counts[domain.StatusCompleted], counts[domain.StatusCached]))
}

// TargetInfo describes a registered target for listing.
type TargetInfo struct {
	Name    string
	Kind    domain.TargetKind
	Exports []string
	// UpToDate reports whether an executable's last recorded build matches its current inputs.
	UpToDate bool
}

// Targets lists the targets registered by the build script in declaration order.
func (a *App) Targets(ctx context.Context) ([]TargetInfo, error) {
	project, registry, err := a.load()
	if err != nil {
		return nil, err
	}

	infos := make([]TargetInfo, 0, registry.Len())
	for t := range registry.Walk() {
		infos = append(infos, TargetInfo{
			Name:    t.Name.String(),
			Kind:    t.Kind,
			Exports: t.ExportNames(),
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(project.Jobs, 1))
	for i := range infos {
		if infos[i].Kind != domain.KindExecutable {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			upToDate, err := a.scheduler.UpToDate(project, infos[i].Name)
			if err != nil {
				return err
			}
			infos[i].UpToDate = upToDate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Call invokes an export of a library target.
// Arguments are passed as integers, floats or booleans when they parse as one, otherwise as strings.
func (a *App) Call(ctx context.Context, library, function string, args []string) error {
	_, registry, err := a.load()
	if err != nil {
		return err
	}
	return registry.Call(ctx, library, function, parseArgs(args)...)
}

func parseArgs(args []string) []any {
	values := make([]any, len(args))
	for i, arg := range args {
		switch {
		case arg == "true" || arg == "false":
			values[i] = arg == "true"
		case isInt(arg):
			n, _ := strconv.Atoi(arg)
			values[i] = n
		case isFloat(arg):
			f, _ := strconv.ParseFloat(arg, 64)
			values[i] = f
		default:
			values[i] = arg
		}
	}
	return values
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "xXnN")
}

// Eval compiles path and evaluates entry at compile time.
// Library exports registered by the project's build script are reachable through call_native.
func (a *App) Eval(ctx context.Context, path, entry string) (*domain.Artifact, error) {
	project, err := a.loadProject()
	if err != nil {
		return nil, err
	}

	var natives domain.NativeCaller
	if _, statErr := os.Stat(project.Script); statErr == nil {
		registry, err := a.scripts.Load(project.Script)
		if err != nil {
			return nil, err
		}
		natives = registry
	}

	return a.compiler.Compile(ctx, domain.CompileRequest{
		Target:     unitName(path),
		SourcePath: path,
		Entry:      entry,
		IO:         a.io,
		Natives:    natives,
	})
}

// Emit compiles path to assembly without evaluating it.
// The assembly is also written to out when out is not empty.
func (a *App) Emit(ctx context.Context, path, out string) (string, error) {
	artifact, err := a.compiler.Compile(ctx, domain.CompileRequest{
		Target:     unitName(path),
		SourcePath: path,
		OutputPath: out,
		IO:         a.io,
	})
	if err != nil {
		return "", err
	}
	return artifact.Assembly, nil
}

func unitName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), domain.SourceExt)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the output directory.
	All bool
}

// Clean removes the build info store and, with All, the build outputs.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(project.StorePath(), "build info store")
	if f, ok := a.store.(interface{ Forget(root string) }); ok {
		f.Forget(project.Root)
	}

	if options.All {
		remove(project.OutputDir, "build outputs")
	}

	return errs
}

// setupOTel installs a global tracer provider that reports finished target spans through bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
