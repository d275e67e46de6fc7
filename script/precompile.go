package script

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// CheatcodeAddr is the reserved address cheat invocations are sent to. The
// constant is shared with the HEVM/forge tooling convention so existing test
// suites resolve the same precompile.
var CheatcodeAddr = common.HexToAddress("0x7109709ECfa91a80626fF3989D68f67F5b1DD12D")

var (
	typUint256     = mustNewType("uint256")
	typStringArray = mustNewType("string[]")
	typBytes       = mustNewType("bytes")
)

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Errorf("bad abi type %q: %w", t, err))
	}
	return typ
}

// cheatcodeMethod binds one selector to its argument shape, return shape, and
// implementation. Implementations receive arguments already decoded by the
// ABI layer, typed per go-ethereum's unpacking rules.
type cheatcodeMethod struct {
	name    string
	args    abi.Arguments
	returns abi.Arguments
	run     func(ctx context.Context, c *CheatCodes, values []any) ([]any, error)
}

func (m *cheatcodeMethod) signature() string {
	sig := m.name + "("
	for i, arg := range m.args {
		if i > 0 {
			sig += ","
		}
		sig += arg.Type.String()
	}
	return sig + ")"
}

func (m *cheatcodeMethod) selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(m.signature())))
	return sel
}

// Precompile routes ABI-encoded cheat invocations to a CheatCodes instance.
// Selectors are the first 4 bytes of the Keccak-256 hash of the canonical
// method signature, the same derivation solidity callers use, and the
// signatures are frozen: changing one breaks every test suite built on them.
type Precompile struct {
	cheats  *CheatCodes
	methods map[[4]byte]*cheatcodeMethod
}

func NewPrecompile(cheats *CheatCodes) *Precompile {
	p := &Precompile{
		cheats:  cheats,
		methods: make(map[[4]byte]*cheatcodeMethod),
	}
	p.register(&cheatcodeMethod{
		name: "warp",
		args: abi.Arguments{{Name: "timestamp", Type: typUint256}},
		run: func(ctx context.Context, c *CheatCodes, values []any) ([]any, error) {
			v, _ := uint256.FromBig(values[0].(*big.Int))
			c.Warp(v)
			return nil, nil
		},
	})
	p.register(&cheatcodeMethod{
		name: "roll",
		args: abi.Arguments{{Name: "blockNumber", Type: typUint256}},
		run: func(ctx context.Context, c *CheatCodes, values []any) ([]any, error) {
			v, _ := uint256.FromBig(values[0].(*big.Int))
			c.Roll(v)
			return nil, nil
		},
	})
	p.register(&cheatcodeMethod{
		name:    "ffi",
		args:    abi.Arguments{{Name: "command", Type: typStringArray}},
		returns: abi.Arguments{{Name: "result", Type: typBytes}},
		run: func(ctx context.Context, c *CheatCodes, values []any) ([]any, error) {
			out, err := c.Ffi(ctx, values[0].([]string))
			if err != nil {
				return nil, err
			}
			return []any{out}, nil
		},
	})
	return p
}

func (p *Precompile) register(m *cheatcodeMethod) {
	sel := m.selector()
	if _, ok := p.methods[sel]; ok {
		panic(fmt.Errorf("selector collision for %s", m.signature()))
	}
	p.methods[sel] = m
}

// Call routes an invocation addressed to addr. Only the reserved cheatcode
// address resolves to the engine; anything else belongs to the surrounding
// execution context and is rejected here.
func (p *Precompile) Call(ctx context.Context, addr common.Address, input []byte) ([]byte, error) {
	if addr != CheatcodeAddr {
		return nil, fmt.Errorf("address %s is not the cheatcode precompile", addr)
	}
	return p.Run(ctx, input)
}

// Run dispatches one ABI-encoded cheat invocation: resolve the selector,
// decode the arguments, invoke the cheatcode, encode the result. A selector
// miss or a decode mismatch rejects the call before any state is touched.
// Cheatcode failures propagate unchanged; no default result is substituted.
func (p *Precompile) Run(ctx context.Context, input []byte) ([]byte, error) {
	var sel [4]byte
	if len(input) < 4 {
		return nil, &UnsupportedCheatcodeError{Selector: sel}
	}
	copy(sel[:], input[:4])
	method, ok := p.methods[sel]
	if !ok {
		return nil, &UnsupportedCheatcodeError{Selector: sel}
	}
	values, err := method.args.Unpack(input[4:])
	if err != nil {
		return nil, &InvalidArgumentsError{Method: method.name, Err: err}
	}
	results, err := method.run(ctx, p.cheats, values)
	if err != nil {
		return nil, err
	}
	if len(method.returns) == 0 {
		return nil, nil
	}
	return method.returns.Pack(results...)
}

// CheatcodeInfo describes one registered cheatcode, for inspection tooling.
type CheatcodeInfo struct {
	Name      string
	Signature string
	Selector  [4]byte
}

// Cheatcodes lists the registered cheatcodes sorted by name.
func (p *Precompile) Cheatcodes() []CheatcodeInfo {
	infos := make([]CheatcodeInfo, 0, len(p.methods))
	for sel, m := range p.methods {
		infos = append(infos, CheatcodeInfo{
			Name:      m.name,
			Signature: m.signature(),
			Selector:  sel,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}
