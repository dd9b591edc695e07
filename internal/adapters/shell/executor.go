// Package shell provides the executor that runs external commands such as the link step.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and a pty.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

type ptyProcess struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	// The copy loop drains what the process wrote before exiting.
	<-p.ioDone
	return err
}

// Execute runs cmd in a pty and waits for it to complete.
// Output is logged line by line and copied to stdout. A pty merges both streams,
// so stderr only receives output when the pty cannot be allocated.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if cmd == nil || len(cmd.Args) == 0 {
		return nil
	}

	stdoutLog := &logWriter{logger: e.logger}
	stderrLog := &logWriter{logger: e.logger, errors: true}

	out := io.MultiWriter(stdoutLog, orDiscard(stdout))
	proc, err := start(ctx, cmd, out, stdoutLog)
	if errors.Is(err, exec.ErrNotFound) {
		return zerr.With(zerr.Wrap(err, "command not found"), "command", cmd.Args[0])
	}
	if err != nil {
		// No pty available, e.g. inside containers without /dev/ptmx.
		c := command(ctx, cmd)
		c.Stdout = out
		c.Stderr = io.MultiWriter(stderrLog, orDiscard(stderr))
		err = c.Run()
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
		return exitError(cmd, err)
	}

	return exitError(cmd, proc.Wait())
}

func start(ctx context.Context, cmd *domain.Command, stdout io.Writer, log *logWriter) (*ptyProcess, error) {
	c := command(ctx, cmd)
	if c.Err != nil {
		return nil, c.Err
	}

	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = log.Close() }()

		_, _ = io.Copy(stdout, ptmx)
	}()

	return &ptyProcess{cmd: c, ioDone: ioDone}, nil
}

func command(ctx context.Context, cmd *domain.Command) *exec.Cmd {
	name := cmd.Args[0]
	cmdEnv := resolveEnvironment(os.Environ(), cmd.Environment)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // G204: link command comes from pave.yaml
	// Preserve the name as invoked.
	c.Args[0] = name
	c.Dir = cmd.WorkingDir
	c.Env = cmdEnv
	return c
}

func exitError(cmd *domain.Command, err error) error {
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "command", cmd.Args[0])
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

type logWriter struct {
	logger ports.Logger
	errors bool
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs translate \n into \r\n.
	msg := strings.TrimSuffix(string(line), "\r")

	if w.errors {
		w.logger.Error(zerr.New(msg))
		return
	}
	w.logger.Info(msg)
}

// allowListedEnvVars are the system variables a link command inherits.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
}

// resolveEnvironment starts from the allow-listed system variables and applies the configured overrides.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
