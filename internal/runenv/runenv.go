// Package runenv runs child processes with a loaded environment.
package runenv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/log"
)

// StopTimeout is how long Stop waits after SIGTERM before sending SIGKILL.
var StopTimeout = 5 * time.Second

// EnvMap parses KEY=VALUE pairs as returned by os.Environ.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// BuildEnv renders env as a sorted KEY=VALUE list for exec.Cmd.
func BuildEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}

// MergeOverlayEnv applies --env style KEY=VALUE pairs to env. Existing
// keys are only replaced when overload is set.
func MergeOverlayEnv(env map[string]string, overlay []string, overload bool) error {
	for _, s := range overlay {
		key, value, ok := strings.Cut(s, "=")
		if !ok || !envfile.IsValidName(key) {
			return fmt.Errorf("invalid --env %q: expected KEY=value", s)
		}
		if _, exists := env[key]; overload || !exists {
			env[key] = value
		}
	}
	return nil
}

func exitCodeFromError(runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), runErr
	}
	return -1, fmt.Errorf("run command: %w", runErr)
}

// Run runs command to completion with exactly env as its environment and
// the current process's standard streams.
func Run(env map[string]string, workdir, command string, args []string) (int, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = BuildEnv(env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = workdir
	// Child stays in our process group so Ctrl+C reaches it too.
	return exitCodeFromError(cmd.Run())
}

// ProcessRunner runs a restartable child in its own process group, so that
// Stop takes down everything it spawned.
type ProcessRunner struct {
	Command string
	Args    []string
	Env     map[string]string
	Workdir string
	Stdout  io.Writer
	Stderr  io.Writer

	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func (r *ProcessRunner) Start() error {
	r.cmd = exec.Command(r.Command, r.Args...)
	r.cmd.Env = BuildEnv(r.Env)
	r.cmd.Stdin = os.Stdin
	r.cmd.Stdout = r.Stdout
	r.cmd.Stderr = r.Stderr
	if r.cmd.Stdout == nil {
		r.cmd.Stdout = os.Stdout
	}
	if r.cmd.Stderr == nil {
		r.cmd.Stderr = os.Stderr
	}
	r.cmd.Dir = r.Workdir
	r.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.Command, err)
	}
	log.Debugf("runenv: started %s (pid %d)", r.Command, r.cmd.Process.Pid)

	r.done = make(chan struct{})
	go func() {
		r.err = r.cmd.Wait()
		close(r.done)
	}()
	return nil
}

// Done is closed when the process exits.
func (r *ProcessRunner) Done() <-chan struct{} {
	return r.done
}

func (r *ProcessRunner) Wait() error {
	if r.done == nil {
		return fmt.Errorf("process not started")
	}
	<-r.done
	return r.err
}

// Stop terminates the process group, escalating to SIGKILL after
// StopTimeout.
func (r *ProcessRunner) Stop() error {
	if !r.Running() {
		return nil
	}
	pgid, err := syscall.Getpgid(r.cmd.Process.Pid)
	if err != nil {
		return r.cmd.Process.Kill()
	}
	if err := killFunc(-pgid, syscall.SIGTERM); err != nil {
		return r.cmd.Process.Kill()
	}

	select {
	case <-r.done:
		return nil
	case <-time.After(StopTimeout):
		_ = killFunc(-pgid, syscall.SIGKILL)
		<-r.done
		return fmt.Errorf("process did not exit gracefully, killed")
	}
}

func (r *ProcessRunner) ExitCode() int {
	if r.cmd == nil || r.cmd.ProcessState == nil {
		return -1
	}
	return r.cmd.ProcessState.ExitCode()
}

func (r *ProcessRunner) Running() bool {
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// killFunc is replaced in tests.
var killFunc = func(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}
