// siakit CLI - Sia address, policy and v2 transaction tool
//
// Example usage:
//
//	# Address of a public key's standard unlock conditions
//	siakit address ed25519:cecc1507dc1ddd7295951c290888f095adb9044d1b73d696e6df065d683bd4fc
//
//	# Atomic swap policies
//	siakit atomic-swap --alice ed25519:... --bob ed25519:... --locktime 1700000000 --hash h:...
//
//	# Sign a v2 transaction read from stdin
//	siakit -c siakit.toml sign < txn.json
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "siakit"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
)

const version = "0.1.0"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "the siakit command line interface"
	app.Version = version
	if gitCommit != "" {
		app.Version += "-" + gitCommit
	}
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		addressCommand,
		policyAddressCommand,
		atomicSwapCommand,
		txidCommand,
		sighashCommand,
		feeCommand,
		signCommand,
		claimCommand,
		refundCommand,
		keygenCommand,
		eventCommand,
		versionCommand,
	}
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		jsonFormatFlag,
		colorFormatFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCommand = &cli.Command{
	Action:    printVersion,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
}

func printVersion(ctx *cli.Context) error {
	w := ctx.App.Writer
	fmt.Fprintln(w, clientIdentifier)
	fmt.Fprintln(w, "Version:", version)
	if gitCommit != "" {
		fmt.Fprintln(w, "Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Fprintln(w, "Git Commit Date:", gitDate)
	}
	fmt.Fprintln(w, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Operating System:", runtime.GOOS)
	return nil
}
