package script

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// BlockHash derives the digest recorded for block n: the Keccak-256 hash of
// the block number as a 32-byte big-endian word. It is a pure function of n
// alone, so rematerializing after a rewind reproduces the identical digest,
// and distinct block numbers yield distinct digests.
func BlockHash(n *uint256.Int) common.Hash {
	word := n.Bytes32()
	return crypto.Keccak256Hash(word[:])
}
