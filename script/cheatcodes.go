package script

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// CheatCodes implements the cheat operations against a single session Env.
// Operations run one at a time to completion; a cheatcode either fully
// applies or leaves the Env untouched.
type CheatCodes struct {
	env        *Env
	logger     log.Logger
	ffiEnabled bool
}

type CheatCodesOption func(*CheatCodes)

// WithFfiEnabled opts the session in to external process execution. Ffi is
// off by default: running arbitrary commands from test code is something the
// operator must ask for.
func WithFfiEnabled() CheatCodesOption {
	return func(c *CheatCodes) {
		c.ffiEnabled = true
	}
}

func NewCheatCodes(logger log.Logger, env *Env, opts ...CheatCodesOption) *CheatCodes {
	c := &CheatCodes{
		env:    env,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Env exposes the session environment for reads by the surrounding execution
// context. Timestamp, block number and block hashes are ordinary observable
// state, not cheat operations.
func (c *CheatCodes) Env() *Env {
	return c.env
}

// Warp sets the current timestamp. It is a bare write: the engine enforces no
// ordering against the previous value, so time may move backward.
func (c *CheatCodes) Warp(v *uint256.Int) {
	c.logger.Debug("Cheatcode warp", "timestamp", v)
	c.env.setTimestamp(v)
}

// Roll sets the current block number and materializes hash history for the
// visited block and its parent. Rolling backward never rewrites history.
func (c *CheatCodes) Roll(v *uint256.Int) {
	c.logger.Debug("Cheatcode roll", "block", v)
	c.env.setBlockNumber(v)
}

// Ffi runs args as an external command and returns its raw stdout bytes.
// args[0] is the executable; the rest are passed verbatim with no shell
// interpretation of the bridge's own. The call blocks until the child exits,
// with ctx as the external supervisor. Exactly one spawn attempt is made.
func (c *CheatCodes) Ffi(ctx context.Context, args []string) ([]byte, error) {
	if !c.ffiEnabled {
		return nil, &FfiDisabledError{}
	}
	if len(args) == 0 {
		return nil, &InvalidArgumentsError{Method: "ffi", Err: errors.New("empty command")}
	}
	return runCommand(ctx, c.logger, args)
}
