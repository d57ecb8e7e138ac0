package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"lukechampine.com/frand"

	"github.com/suffix-labs/siakit/internal/config"
	"github.com/suffix-labs/siakit/internal/log"
	"github.com/suffix-labs/siakit/pkg/api"
	"github.com/suffix-labs/siakit/pkg/builder"
	"github.com/suffix-labs/siakit/pkg/transaction"
	"github.com/suffix-labs/siakit/pkg/types"
)

var (
	addressCommand = &cli.Command{
		Action:    address,
		Name:      "address",
		Usage:     "Print the standard address of a public key",
		ArgsUsage: "<ed25519:hex>",
	}
	policyAddressCommand = &cli.Command{
		Action: policyAddress,
		Name:   "policy-address",
		Usage:  "Print the address of a JSON spend policy",
		Flags:  []cli.Flag{fileFlag},
	}
	atomicSwapCommand = &cli.Command{
		Action: atomicSwap,
		Name:   "atomic-swap",
		Usage:  "Print the policies and address of an atomic swap",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "alice", Usage: "public key claiming with the secret", Required: true},
			&cli.StringFlag{Name: "bob", Usage: "public key reclaiming after the lock time", Required: true},
			&cli.Uint64Flag{Name: "locktime", Usage: "unix time after which bob may reclaim", Required: true},
			&cli.StringFlag{Name: "hash", Usage: "hash of the secret", Required: true},
		},
	}
	txidCommand = &cli.Command{
		Action: txid,
		Name:   "txid",
		Usage:  "Print the id of a JSON transaction",
		Flags: []cli.Flag{
			fileFlag,
			&cli.BoolFlag{Name: "v1", Usage: "input is a v1 transaction"},
		},
	}
	sighashCommand = &cli.Command{
		Action: sighash,
		Name:   "sighash",
		Usage:  "Print the input signature hash of a JSON v2 transaction",
		Flags:  []cli.Flag{fileFlag},
	}
	feeCommand = &cli.Command{
		Action: fee,
		Name:   "fee",
		Usage:  "Print the weight and estimated fee of a JSON v2 transaction",
		Flags: []cli.Flag{
			fileFlag,
			&cli.StringFlag{Name: "rate", Usage: "hastings per byte (default: signing.fee from config)"},
		},
	}
	signCommand = &cli.Command{
		Action: sign,
		Name:   "sign",
		Usage:  "Sign the key-locked inputs of a JSON v2 transaction",
		Flags:  []cli.Flag{fileFlag, seedFlag},
	}
	claimCommand = &cli.Command{
		Action: claim,
		Name:   "claim",
		Usage:  "Spend an atomic swap input with the secret",
		Flags: []cli.Flag{
			fileFlag, seedFlag, inputFlag,
			&cli.StringFlag{Name: "preimage", Usage: "hex encoded 32-byte secret", Required: true},
		},
	}
	refundCommand = &cli.Command{
		Action: refund,
		Name:   "refund",
		Usage:  "Spend an atomic swap input after its lock time",
		Flags:  []cli.Flag{fileFlag, seedFlag, inputFlag},
	}
	keygenCommand = &cli.Command{
		Action: keygen,
		Name:   "keygen",
		Usage:  "Generate a random key seed",
	}
	eventCommand = &cli.Command{
		Action: event,
		Name:   "event",
		Usage:  "Decode a JSON indexer event",
		Flags:  []cli.Flag{fileFlag},
	}
)

func printJSON(ctx *cli.Context, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

func address(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected one public key, got %d arguments", ctx.NArg())
	}
	addr, err := api.StandardAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, addr)
	return nil
}

func policyAddress(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	addr, err := api.PolicyAddress(input)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, addr)
	return nil
}

func atomicSwap(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	swap, err := api.AtomicSwapAddresses(&api.AtomicSwapRequest{
		Alice:      ctx.String("alice"),
		Bob:        ctx.String("bob"),
		LockTime:   ctx.Uint64("locktime"),
		SecretHash: ctx.String("hash"),
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, swap)
}

func txid(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	var id transaction.TransactionID
	if ctx.Bool("v1") {
		id, err = api.V1TransactionID(input)
	} else {
		id, err = api.TransactionID(input)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, id)
	return nil
}

func sighash(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	h, err := api.InputSigHash(input)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, h)
	return nil
}

func fee(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	fp, err := cfg.FeePolicy()
	if err != nil {
		return err
	}
	if rate := ctx.String("rate"); rate != "" {
		c, err := types.ParseCurrency(rate)
		if err != nil {
			return errors.Wrap(err, "rate")
		}
		p := builder.FeePolicyHastingsPerByte(c)
		fp = &p
	}
	if fp == nil {
		return errors.New("no fee policy: pass --rate or set signing.fee in the config")
	}

	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	var txn transaction.V2Transaction
	if err := json.Unmarshal(input, &txn); err != nil {
		return errors.Wrap(err, "decode transaction")
	}
	b := builder.FromTransaction(txn).FeePolicy(*fp)
	estimate, err := b.EstimatedFee()
	if err != nil {
		return err
	}
	return printJSON(ctx, struct {
		Weight uint64         `json:"weight"`
		Fee    types.Currency `json:"fee"`
	}{b.Weight(), estimate})
}

// seeds returns the --seed values, or the configured seed.
func seeds(ctx *cli.Context, cfg *config.Config) ([][]byte, error) {
	var out [][]byte
	for _, s := range ctx.StringSlice(seedFlag.Name) {
		seed, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(err, "decode seed")
		}
		out = append(out, seed)
	}
	if len(out) == 0 && cfg.HasSigningKey() {
		sk, err := cfg.SigningKey()
		if err != nil {
			return nil, err
		}
		out = append(out, sk.Seed())
	}
	if len(out) == 0 {
		return nil, errors.New("no signing key: pass --seed or set signing.seed in the config")
	}
	return out, nil
}

func sign(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	keys, err := seeds(ctx, cfg)
	if err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	signed, err := api.SignTransaction(input, keys...)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(signed))
	return nil
}

func claim(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	keys, err := seeds(ctx, cfg)
	if err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	out, err := api.ClaimAtomicSwap(input, keys[0], ctx.String("preimage"), ctx.Int(inputFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func refund(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	keys, err := seeds(ctx, cfg)
	if err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	out, err := api.RefundAtomicSwap(input, keys[0], ctx.Int(inputFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func keygen(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	seed := frand.Bytes(types.SeedSize)
	sk, err := types.NewPrivateKeyFromSeed(seed)
	if err != nil {
		return err
	}
	pk := sk.PublicKey()
	log.Info("generated key", "publicKey", pk.String())
	return printJSON(ctx, struct {
		Seed      string          `json:"seed"`
		PublicKey types.PublicKey `json:"publicKey"`
		Address   types.Address   `json:"address"`
	}{hex.EncodeToString(seed), pk, types.StandardUnlockHash(pk)})
}

func event(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	ev, err := api.ParseEvent(input)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s %s height=%d confirmations=%d\n", ev.Type, ev.ID, ev.Index.Height, ev.Confirmations)
	return nil
}
