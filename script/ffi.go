package script

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/ethereum/go-ethereum/log"
)

// runCommand spawns argv exactly once and waits for it to exit. Stdout is
// captured byte-exact and returned only on exit code 0; stderr is captured
// separately for diagnostics. The caller's context is the only supervisor:
// cancellation kills the child, which surfaces as an execution failure, so
// no pipe or process handle outlives the call.
func runCommand(ctx context.Context, logger log.Logger, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Spawning command", "cmd", args[0], "args", len(args)-1)
	if err := cmd.Start(); err != nil {
		return nil, &ProcessSpawnError{Args: args, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &ProcessExecutionError{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   stderr.Bytes(),
			Err:      err,
		}
	}
	logger.Debug("Command completed", "cmd", args[0], "stdout_bytes", stdout.Len())
	return stdout.Bytes(), nil
}
