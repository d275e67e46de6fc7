package script

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Env owns the simulated chain values a test session observes: the current
// timestamp, the current block number, and the recorded hashes of blocks the
// session has visited. It is deliberately dumb storage: all writes go through
// the cheatcodes, and one invocation runs at a time, so no locking is needed.
//
// Each session constructs its own Env; nothing is shared between sessions.
type Env struct {
	timestamp *uint256.Int
	blockNum  *uint256.Int

	// blockHashes is sparse: an entry exists only for block numbers the
	// session has rolled to (or past). Entries are never overwritten, so a
	// forward/backward/forward sequence observes stable hashes.
	blockHashes map[uint256.Int]common.Hash
}

type EnvOption func(*Env)

// WithTimestamp sets the timestamp the session starts at.
func WithTimestamp(v *uint256.Int) EnvOption {
	return func(e *Env) {
		e.timestamp = v.Clone()
	}
}

// WithBlockNumber sets the block number the session starts at.
func WithBlockNumber(v *uint256.Int) EnvOption {
	return func(e *Env) {
		e.blockNum = v.Clone()
	}
}

// NewEnv returns a fresh session environment. Timestamp and block number
// default to zero, matching a chain at genesis.
func NewEnv(opts ...EnvOption) *Env {
	e := &Env{
		timestamp:   uint256.NewInt(0),
		blockNum:    uint256.NewInt(0),
		blockHashes: make(map[uint256.Int]common.Hash),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timestamp returns the current simulated timestamp.
func (e *Env) Timestamp() *uint256.Int {
	return e.timestamp.Clone()
}

// BlockNumber returns the current simulated block number.
func (e *Env) BlockNumber() *uint256.Int {
	return e.blockNum.Clone()
}

// BlockHash returns the recorded hash of block n. It returns the zero hash
// when n has never been visited, and always for the current block number: a
// block cannot observe its own hash from within itself.
func (e *Env) BlockHash(n *uint256.Int) common.Hash {
	if n.Eq(e.blockNum) {
		return common.Hash{}
	}
	return e.blockHashes[*n]
}

func (e *Env) setTimestamp(v *uint256.Int) {
	e.timestamp = v.Clone()
}

// setBlockNumber moves the session to block v. The hash of v and of its
// parent are materialized on first visit, so the parent hash becomes
// observable the moment the chain advances past it.
func (e *Env) setBlockNumber(v *uint256.Int) {
	e.blockNum = v.Clone()
	e.recordBlockHash(v)
	if !v.IsZero() {
		e.recordBlockHash(new(uint256.Int).SubUint64(v, 1))
	}
}

// recordBlockHash materializes the digest for block n exactly once. Existing
// entries are left untouched so history is immutable for the session.
func (e *Env) recordBlockHash(n *uint256.Int) {
	if _, ok := e.blockHashes[*n]; ok {
		return
	}
	e.blockHashes[*n] = BlockHash(n)
}
