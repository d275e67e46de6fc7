package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/op-cheat/script"
)

const version = "v0.1.0"

var (
	logLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "Log level: trace, debug, info, warn, error, crit",
		Value: "info",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Kill the spawned command after this duration (0 disables the timeout)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "op-cheat"
	app.Version = version
	app.Usage = "Inspect and exercise the simulated-chain cheatcode engine"
	app.Flags = []cli.Flag{logLevelFlag}
	app.Before = setupLogging
	app.Commands = []*cli.Command{
		selectorsCommand,
		blockhashCommand,
		ffiCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "err", err)
	}
}

func setupLogging(cliCtx *cli.Context) error {
	lvl, err := levelFromString(cliCtx.String(logLevelFlag.Name))
	if err != nil {
		return err
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func levelFromString(lvlString string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvlString)) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelDebug, fmt.Errorf("unknown log level: %s", lvlString)
	}
}

var selectorsCommand = &cli.Command{
	Name:  "selectors",
	Usage: "Print the cheatcode selector table",
	Action: func(cliCtx *cli.Context) error {
		cheats := script.NewCheatCodes(log.Root(), script.NewEnv())
		pre := script.NewPrecompile(cheats)
		fmt.Printf("cheatcode address: %s\n", script.CheatcodeAddr)
		for _, info := range pre.Cheatcodes() {
			fmt.Printf("0x%x  %s\n", info.Selector, info.Signature)
		}
		return nil
	},
}

var blockhashCommand = &cli.Command{
	Name:      "blockhash",
	Usage:     "Print the deterministic digest the engine records for a block number",
	ArgsUsage: "<block-number>",
	Action: func(cliCtx *cli.Context) error {
		if cliCtx.NArg() != 1 {
			return fmt.Errorf("expected exactly one block number, got %d args", cliCtx.NArg())
		}
		n, err := uint256.FromDecimal(cliCtx.Args().First())
		if err != nil {
			return fmt.Errorf("invalid block number %q: %w", cliCtx.Args().First(), err)
		}
		fmt.Println(script.BlockHash(n))
		return nil
	},
}

var ffiCommand = &cli.Command{
	Name:      "ffi",
	Usage:     "Run a command through the process bridge and print its stdout as hex",
	ArgsUsage: "<command> [args...]",
	Flags:     []cli.Flag{timeoutFlag},
	Action: func(cliCtx *cli.Context) error {
		args := cliCtx.Args().Slice()
		if len(args) == 0 {
			return fmt.Errorf("expected a command to run")
		}
		ctx := cliCtx.Context
		if d := cliCtx.Duration(timeoutFlag.Name); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		cheats := script.NewCheatCodes(log.Root(), script.NewEnv(), script.WithFfiEnabled())
		out, err := cheats.Ffi(ctx, args)
		if err != nil {
			return err
		}
		fmt.Println(hexutil.Encode(out))
		return nil
	},
}
