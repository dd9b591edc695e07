// Package scheduler implements the target build scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler builds registered targets with bounded parallelism.
type Scheduler struct {
	compiler ports.Compiler
	executor ports.Executor
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	tracer   ports.Tracer
	logger   ports.Logger
	io       domain.IO

	mu           sync.RWMutex
	targetStatus map[domain.InternedString]domain.TargetStatus
}

// NewScheduler creates a new Scheduler. Callbacks of built executables receive io.
func NewScheduler(
	compiler ports.Compiler,
	executor ports.Executor,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
	io domain.IO,
) *Scheduler {
	return &Scheduler{
		compiler:     compiler,
		executor:     executor,
		store:        store,
		hasher:       hasher,
		tracer:       tracer,
		logger:       logger,
		io:           io,
		targetStatus: make(map[domain.InternedString]domain.TargetStatus),
	}
}

func (s *Scheduler) initTargetStatuses(targets []*domain.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.targetStatus = make(map[domain.InternedString]domain.TargetStatus, len(targets))
	for _, t := range targets {
		s.targetStatus[t.Name] = domain.StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status domain.TargetStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetStatus[name] = status
}

func (s *Scheduler) getStatus(name domain.InternedString) domain.TargetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targetStatus[name]
}

// Statuses returns the status of every target of the last run, keyed by name.
func (s *Scheduler) Statuses() map[string]domain.TargetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[string]domain.TargetStatus, len(s.targetStatus))
	for name, status := range s.targetStatus {
		statuses[name.String()] = status
	}
	return statuses
}

// Run builds the named targets, or every registered target when names is empty.
// At most jobs targets build at once. After a failure running targets finish
// and no new ones start.
func (s *Scheduler) Run(
	ctx context.Context,
	registry *domain.Registry,
	project *domain.Project,
	names []string,
	jobs int,
	noCache bool,
) error {
	targets, err := selectTargets(registry, names)
	if err != nil {
		return err
	}

	s.initTargetStatuses(targets)

	planned := make([]string, len(targets))
	for i, t := range targets {
		planned[i] = t.Name.String()
	}
	s.tracer.EmitPlan(ctx, planned)

	state := &runState{
		s:        s,
		ctx:      ctx,
		registry: registry,
		project:  project,
		noCache:  noCache,
		ready:    targets,
		jobs:     max(jobs, 1),
	}
	state.resultsCh = make(chan result, state.jobs)

	for !state.isDone() {
		state.schedule()
		if state.isDone() {
			break
		}
		state.handleResult(<-state.resultsCh)
	}

	if ctx.Err() != nil {
		state.errs = errors.Join(state.errs, ctx.Err())
	}
	return state.errs
}

func selectTargets(registry *domain.Registry, names []string) ([]*domain.Target, error) {
	if len(names) == 0 {
		var targets []*domain.Target
		for t := range registry.Walk() {
			targets = append(targets, t)
		}
		return targets, nil
	}

	seen := make(map[string]bool, len(names))
	targets := make([]*domain.Target, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		t, ok := registry.Lookup(name)
		if !ok {
			return nil, zerr.With(domain.ErrTargetNotFound, "target", name)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

type result struct {
	target domain.InternedString
	err    error
}

type runState struct {
	s        *Scheduler
	ctx      context.Context
	registry *domain.Registry
	project  *domain.Project
	noCache  bool

	ready     []*domain.Target
	active    int
	jobs      int
	failed    bool
	resultsCh chan result
	errs      error
}

func (state *runState) stopped() bool {
	return state.failed || state.ctx.Err() != nil
}

func (state *runState) isDone() bool {
	return state.active == 0 && (len(state.ready) == 0 || state.stopped())
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.jobs && !state.stopped() {
		t := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(t.Name, domain.StatusRunning)

		go func(t *domain.Target) {
			state.resultsCh <- result{target: t.Name, err: state.buildTarget(state.ctx, t)}
		}(t)
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, domain.ErrTargetFailed.Error()), "target", res.target.String())
		state.errs = errors.Join(state.errs, wrapped)
		state.failed = true
		state.s.updateStatus(res.target, domain.StatusFailed)
		return
	}

	// Cached targets keep their status.
	if state.s.getStatus(res.target) != domain.StatusCached {
		state.s.updateStatus(res.target, domain.StatusCompleted)
	}
}

func (state *runState) buildTarget(ctx context.Context, t *domain.Target) (err error) {
	ctx, span := state.s.tracer.Start(ctx, t.Name.String(), ports.WithSpanKind(string(t.Kind)))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	if t.Kind == domain.KindLibrary {
		exports := t.ExportNames()
		span.SetAttribute("exports", exports)
		state.s.logger.With("target", t.Name.String()).
			Info(fmt.Sprintf("exports [%s]", strings.Join(exports, ", ")))
		return nil
	}

	return state.buildExecutable(ctx, t, span)
}

func (state *runState) buildExecutable(ctx context.Context, t *domain.Target, span ports.Span) error {
	name := t.Name.String()
	project := state.project
	sourcePath := project.SourcePath(name)

	// 1. Previous build
	var prior *domain.BuildInfo
	if !state.noCache {
		// An unreadable record is a cache miss.
		prior, _ = state.s.store.Get(project.Root, name)
	}
	var reads []string
	if prior != nil {
		reads = prior.Reads
	}

	// 2. Input hash
	inputHash, err := state.s.inputHash(project, name, reads)
	if err != nil {
		return err
	}
	span.SetAttribute("input_hash", inputHash)

	hasSource, err := exists(sourcePath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", sourcePath)
	}
	output := primaryOutput(project, name, hasSource)

	// 3. Cache
	if state.s.matches(prior, inputHash, output) {
		state.s.updateStatus(t.Name, domain.StatusCached)
		span.SetAttribute("cached", true)
		return nil
	}

	// 4. Callback
	if err := t.Run(ctx, state.s.io); err != nil {
		return err
	}

	var built []string
	if hasSource {
		// 5. Compile
		artifact, err := state.compile(ctx, name, sourcePath)
		if err != nil {
			return err
		}
		built = artifact.Reads

		// 6. Link
		if cmd := project.LinkCommand(name); cmd != nil {
			if err := state.s.executor.Execute(ctx, cmd, span, span); err != nil {
				return zerr.Wrap(err, domain.ErrLinkFailed.Error())
			}
		}
	}

	// Files read at compile time join the inputs of the next build.
	if !slices.Equal(built, reads) {
		if inputHash, err = state.s.inputHash(project, name, built); err != nil {
			return err
		}
	}

	// 7. Record
	return state.updateCache(name, inputHash, output, built)
}

func (state *runState) compile(ctx context.Context, name, sourcePath string) (*domain.Artifact, error) {
	artifact, err := state.s.compiler.Compile(ctx, domain.CompileRequest{
		Target:     name,
		SourcePath: sourcePath,
		OutputPath: state.project.AssemblyPath(name),
		Entry:      domain.EntryPoint,
		IO:         state.s.io,
		Natives:    state.registry,
	})
	if err != nil {
		return nil, err
	}

	if artifact.Evaluated && artifact.Value != nil {
		state.s.logger.With("target", name).
			Info(fmt.Sprintf("%s evaluated to %q", domain.EntryPoint, artifact.Value))
	}
	return artifact, nil
}

// UpToDate reports whether the recorded build of an executable target still
// matches its inputs and output, using the same rule as Run.
func (s *Scheduler) UpToDate(project *domain.Project, name string) (bool, error) {
	info, err := s.store.Get(project.Root, name)
	if err != nil || info == nil {
		return false, err
	}

	inputHash, err := s.inputHash(project, name, info.Reads)
	if err != nil {
		return false, err
	}

	sourcePath := project.SourcePath(name)
	hasSource, err := exists(sourcePath)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", sourcePath)
	}
	return s.matches(info, inputHash, primaryOutput(project, name, hasSource)), nil
}

// inputHash covers the build script, the target's source, its link command and reads.
func (s *Scheduler) inputHash(project *domain.Project, name string, reads []string) (string, error) {
	files := append([]string{project.Script, project.SourcePath(name)}, reads...)
	return s.hasher.ComputeInputHash(name, domain.KindExecutable, project.LinkCommand(name), files)
}

// matches reports whether info records inputHash and the current content of output.
func (s *Scheduler) matches(info *domain.BuildInfo, inputHash, output string) bool {
	if info == nil || info.InputHash != inputHash {
		return false
	}
	if output == "" {
		return true
	}
	outputHash, err := s.hasher.ComputeFileHash(output)
	return err == nil && outputHash == info.OutputHash
}

// primaryOutput is the file whose hash is recorded for the target, or "" when it produces none.
func primaryOutput(project *domain.Project, name string, hasSource bool) string {
	switch {
	case !hasSource:
		return ""
	case project.LinkCommand(name) != nil:
		return project.BinaryPath(name)
	default:
		return project.AssemblyPath(name)
	}
}

func (state *runState) updateCache(name, inputHash, output string, reads []string) error {
	var outputHash string
	if output != "" {
		h, err := state.s.hasher.ComputeFileHash(output)
		if err != nil {
			return err
		}
		outputHash = h
	}

	return state.s.store.Put(state.project.Root, domain.BuildInfo{
		TargetName: name,
		InputHash:  inputHash,
		OutputHash: outputHash,
		Timestamp:  time.Now(),
		Reads:      reads,
	})
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
