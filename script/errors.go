package script

import (
	"bytes"
	"fmt"
	"strings"
)

// UnsupportedCheatcodeError is returned when calldata addressed to the
// cheatcode precompile carries a selector that no registered cheatcode
// matches. Nothing is decoded and no state is touched.
type UnsupportedCheatcodeError struct {
	Selector [4]byte
}

var _ error = (*UnsupportedCheatcodeError)(nil)

func (e *UnsupportedCheatcodeError) Error() string {
	return fmt.Sprintf("unsupported cheatcode selector 0x%x", e.Selector)
}

// InvalidArgumentsError is returned when calldata matched a cheatcode but its
// argument bytes do not decode into the shape the cheatcode expects. The call
// is rejected before any state mutation.
type InvalidArgumentsError struct {
	Method string
	Err    error
}

var _ error = (*InvalidArgumentsError)(nil)

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for cheatcode %s: %v", e.Method, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error {
	return e.Err
}

// FfiDisabledError is returned when the ffi cheatcode is invoked without the
// session having opted in to external process execution.
type FfiDisabledError struct{}

var _ error = (*FfiDisabledError)(nil)

func (e *FfiDisabledError) Error() string {
	return "ffi is disabled: enable it explicitly to allow external commands"
}

// ProcessSpawnError is returned when the OS never started the requested
// command: executable not found, permission denied, or similar.
type ProcessSpawnError struct {
	Args []string
	Err  error
}

var _ error = (*ProcessSpawnError)(nil)

func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ProcessSpawnError) Unwrap() error {
	return e.Err
}

// ProcessExecutionError is returned when the command started but did not
// terminate with exit code 0, including death by signal. Stderr is captured
// for diagnostics only; stdout of a failed command is never surfaced.
type ProcessExecutionError struct {
	Args     []string
	ExitCode int
	Stderr   []byte
	Err      error
}

var _ error = (*ProcessExecutionError)(nil)

func (e *ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	if errOut := bytes.TrimSpace(e.Stderr); len(errOut) > 0 {
		msg += ": " + string(errOut)
	}
	return msg
}

func (e *ProcessExecutionError) Unwrap() error {
	return e.Err
}
