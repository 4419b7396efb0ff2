package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Result captures the observable output of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a shell command line synchronously. It is injected as a
// capability so tests can substitute a fake without spawning processes.
type Runner interface {
	Run(ctx context.Context, command string) (Result, error)
}

// ShellRunner runs commands through the system shell.
type ShellRunner struct {
	// Shell overrides shell discovery when set.
	Shell string
}

var _ Runner = (*ShellRunner)(nil)

// Run executes command via `shell -c`. A nonzero exit status is reported in
// Result.ExitCode, not as an error; errors are reserved for failures to run
// the command at all.
func (r *ShellRunner) Run(ctx context.Context, command string) (Result, error) {
	shell, shellArgs, err := determineShell(r.Shell)
	if err != nil {
		return Result{}, err
	}

	args := append(shellArgs, command)
	cmd := exec.CommandContext(ctx, shell, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, runErr
	}

	return result, nil
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}

	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}

	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}

	return "", nil, fmt.Errorf("no suitable shell found")
}
