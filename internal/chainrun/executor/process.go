// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kusari-oss/chainforge/internal/chainlog"
	"github.com/kusari-oss/chainforge/internal/core/chain"
)

// ProcessExecutor is the default Executor: it writes the rendered script to
// a uniquely named temporary file, spawns the interpreter against it, and
// captures the result. This mirrors the teacher's CommandExecutor (build
// args, run, capture stdout/stderr into buffers) generalized with a
// temp-file script body, a deadline, and process-group teardown on timeout.
type ProcessExecutor struct {
	log zerolog.Logger
}

// NewProcessExecutor returns a ready-to-use ProcessExecutor.
func NewProcessExecutor() *ProcessExecutor {
	return &ProcessExecutor{log: chainlog.Get("executor")}
}

// Execute implements Executor.
func (e *ProcessExecutor) Execute(ctx context.Context, spec chain.InterpreterSpec, scriptBody string, timeoutMs *int) Result {
	scriptPath, err := writeTempScript(scriptBody, spec.Extension)
	if err != nil {
		return Result{Err: &Error{Kind: KindSpawnFailure, Reason: fmt.Sprintf("could not create temp script: %v", err)}}
	}
	defer os.Remove(scriptPath)

	runCtx := ctx
	var cancel context.CancelFunc
	if timeoutMs != nil {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(*timeoutMs)*time.Millisecond)
		defer cancel()
	}

	args := append(append([]string{}, spec.Args...), scriptPath)
	cmd := exec.CommandContext(runCtx, spec.Command, args...)
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// When the deadline fires, kill the whole process group (its id is the
	// child's pid under Setpgid) so forked children cannot hold the output
	// pipes open and keep Wait blocked past the timeout.
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug().Str("command", spec.Command).Strs("args", args).Msg("spawning step")

	start := time.Now()
	err = cmd.Start()
	if err != nil {
		return Result{Err: &Error{Kind: KindSpawnFailure, Reason: err.Error()}}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		killProcessGroup(cmd)
		e.log.Warn().Str("command", spec.Command).Dur("duration", duration).Msg("step timed out")
		return Result{
			Stdout:     lossyUTF8(stdout.Bytes()),
			Stderr:     lossyUTF8(stderr.Bytes()),
			DurationMs: duration.Milliseconds(),
			Err:        &Error{Kind: KindTimeout, Reason: "step exceeded its effective timeout"},
		}
	}

	exitCode := 0
	var runErr error
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			runErr = &Error{Kind: KindNonZeroExit, Reason: fmt.Sprintf("exited with status %d", exitCode)}
		} else {
			runErr = &Error{Kind: KindSpawnFailure, Reason: waitErr.Error()}
		}
	}

	e.log.Debug().Str("command", spec.Command).Int("exit_code", exitCode).Dur("duration", duration).Msg("step finished")

	return Result{
		Stdout:     lossyUTF8(stdout.Bytes()),
		Stderr:     lossyUTF8(stderr.Bytes()),
		ExitCode:   exitCode,
		DurationMs: duration.Milliseconds(),
		Err:        runErr,
	}
}

// writeTempScript creates a non-guessable, uniquely named temp file (a
// random uuid, not a counter or timestamp, backs its name) holding body
// with the interpreter's extension.
func writeTempScript(body, extension string) (string, error) {
	name := fmt.Sprintf("chainforge-%s%s", uuid.NewString(), extension)
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o700); err != nil {
		return "", err
	}
	return path, nil
}

// killProcessGroup terminates the spawned process and any children it
// forked, not just the direct child, by signaling the whole process group
// created via Setpgid above.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		_ = cmd.Process.Kill()
		return
	}
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}

// lossyUTF8 decodes b as UTF-8, replacing invalid sequences rather than
// failing, per spec's capture contract.
func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
