package script_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/op-cheat/script"
	"github.com/ethereum-optimism/op-cheat/testlog"
)

func newSession(t *testing.T, opts ...script.CheatCodesOption) *script.CheatCodes {
	t.Helper()
	logger := testlog.Logger(t, log.LevelDebug)
	return script.NewCheatCodes(logger, script.NewEnv(), opts...)
}

func TestWarp(t *testing.T) {
	t.Run("sets the timestamp", func(t *testing.T) {
		cheats := newSession(t)
		require.True(t, cheats.Env().Timestamp().IsZero())

		cheats.Warp(uint256.NewInt(10))
		require.Equal(t, uint256.NewInt(10), cheats.Env().Timestamp())
	})

	t.Run("accepts backward writes", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Warp(uint256.NewInt(1000))
		cheats.Warp(uint256.NewInt(7))
		require.Equal(t, uint256.NewInt(7), cheats.Env().Timestamp())
	})

	t.Run("handles full 256-bit values", func(t *testing.T) {
		cheats := newSession(t)
		huge := new(uint256.Int).Not(uint256.NewInt(0)) // 2^256 - 1
		cheats.Warp(huge)
		require.Equal(t, huge, cheats.Env().Timestamp())
	})

	t.Run("composes additively with the current value", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Warp(uint256.NewInt(10))

		jumps := []uint64{0, 1, 12, 3600, 86400, 1 << 40}
		for _, j := range jumps {
			pre := cheats.Env().Timestamp()
			cheats.Warp(new(uint256.Int).AddUint64(pre, j))
			require.Equal(t, new(uint256.Int).AddUint64(pre, j), cheats.Env().Timestamp())
		}
	})
}

func TestRoll(t *testing.T) {
	t.Run("sets the block number", func(t *testing.T) {
		cheats := newSession(t)
		require.True(t, cheats.Env().BlockNumber().IsZero())

		cheats.Roll(uint256.NewInt(42))
		require.Equal(t, uint256.NewInt(42), cheats.Env().BlockNumber())
	})

	t.Run("accepts backward writes", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Roll(uint256.NewInt(100))
		cheats.Roll(uint256.NewInt(3))
		require.Equal(t, uint256.NewInt(3), cheats.Env().BlockNumber())
	})
}

func TestBlockHashHistory(t *testing.T) {
	zero := common.Hash{}

	t.Run("current block hash is always zero", func(t *testing.T) {
		cheats := newSession(t)
		env := cheats.Env()
		require.Equal(t, zero, env.BlockHash(uint256.NewInt(0)))

		cheats.Roll(uint256.NewInt(5))
		require.Equal(t, zero, env.BlockHash(uint256.NewInt(5)))

		cheats.Roll(uint256.NewInt(10))
		require.Equal(t, zero, env.BlockHash(uint256.NewInt(10)))
	})

	t.Run("unvisited blocks have zero hash", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Roll(uint256.NewInt(5))
		require.Equal(t, zero, cheats.Env().BlockHash(uint256.NewInt(3)))
		require.Equal(t, zero, cheats.Env().BlockHash(uint256.NewInt(1000)))
	})

	t.Run("advancing materializes the parent hash", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Roll(uint256.NewInt(5))
		require.NotEqual(t, zero, cheats.Env().BlockHash(uint256.NewInt(4)))
	})

	t.Run("roll forward then back reproduces history", func(t *testing.T) {
		cheats := newSession(t)
		env := cheats.Env()

		// Start of session: block 0 is current, its hash undefined.
		require.Equal(t, zero, env.BlockHash(uint256.NewInt(0)))

		cheats.Roll(uint256.NewInt(5))
		require.NotEqual(t, zero, env.BlockHash(uint256.NewInt(4)))
		require.Equal(t, zero, env.BlockHash(uint256.NewInt(5)))

		cheats.Roll(uint256.NewInt(10))
		firstHash5 := env.BlockHash(uint256.NewInt(5))
		require.NotEqual(t, zero, firstHash5)
		require.NotEqual(t, env.BlockHash(uint256.NewInt(10)), firstHash5)

		cheats.Roll(uint256.NewInt(5))
		cheats.Roll(uint256.NewInt(10))
		require.Equal(t, firstHash5, env.BlockHash(uint256.NewInt(5)))
	})

	t.Run("distinct visited blocks have distinct hashes", func(t *testing.T) {
		cheats := newSession(t)
		env := cheats.Env()
		for _, n := range []uint64{1, 2, 5, 10, 99, 1 << 32} {
			cheats.Roll(uint256.NewInt(n))
		}
		// Move off every block of interest so none reads as "current".
		cheats.Roll(new(uint256.Int).Not(uint256.NewInt(0)))

		seen := make(map[common.Hash]uint64)
		for _, n := range []uint64{0, 1, 2, 4, 5, 9, 10, 98, 99} {
			h := env.BlockHash(uint256.NewInt(n))
			require.NotEqual(t, zero, h, "block %d should be materialized", n)
			prev, dup := seen[h]
			require.False(t, dup, "blocks %d and %d share a hash", prev, n)
			seen[h] = n
		}
	})
}

func TestBlockHashGenerator(t *testing.T) {
	t.Run("is a pure function of the block number", func(t *testing.T) {
		n := uint256.NewInt(123456789)
		require.Equal(t, script.BlockHash(n), script.BlockHash(n.Clone()))
	})

	t.Run("distinguishes adjacent block numbers", func(t *testing.T) {
		require.NotEqual(t,
			script.BlockHash(uint256.NewInt(7)),
			script.BlockHash(uint256.NewInt(8)))
	})

	t.Run("matches what a session records", func(t *testing.T) {
		cheats := newSession(t)
		cheats.Roll(uint256.NewInt(5))
		cheats.Roll(uint256.NewInt(10))
		require.Equal(t, script.BlockHash(uint256.NewInt(5)),
			cheats.Env().BlockHash(uint256.NewInt(5)))
	})
}

func TestEnvOptions(t *testing.T) {
	t.Run("session can start at a non-genesis state", func(t *testing.T) {
		env := script.NewEnv(
			script.WithTimestamp(uint256.NewInt(1700000000)),
			script.WithBlockNumber(uint256.NewInt(18000000)),
		)
		require.Equal(t, uint256.NewInt(1700000000), env.Timestamp())
		require.Equal(t, uint256.NewInt(18000000), env.BlockNumber())
	})

	t.Run("sessions are independent", func(t *testing.T) {
		logger := testlog.Logger(t, log.LevelDebug)
		a := script.NewCheatCodes(logger, script.NewEnv())
		b := script.NewCheatCodes(logger, script.NewEnv())

		a.Warp(uint256.NewInt(999))
		a.Roll(uint256.NewInt(7))
		require.True(t, b.Env().Timestamp().IsZero())
		require.True(t, b.Env().BlockNumber().IsZero())
		require.Equal(t, common.Hash{}, b.Env().BlockHash(uint256.NewInt(6)))
	})
}
