// Command thresh-demo drives one full keygen + signing run in a
// single process, the way the teacher's cmd/threshold-cli demonstrates
// its protocols end to end against in-memory simulated parties.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/internal/coordinator"
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "thresh-demo",
		Short: "Run an in-process threshold EdDSA keygen and signing demo",
	}
	root.AddCommand(newSimulateCmd())
	return root
}

func newSimulateCmd() *cobra.Command {
	var n, threshold int
	var message string
	var signers string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Keygen over n parties, then sign a message with a quorum",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, n, threshold, message, signers)
		},
	}
	cmd.Flags().IntVar(&n, "n", 3, "number of parties")
	cmd.Flags().IntVar(&threshold, "t", 2, "signing threshold")
	cmd.Flags().StringVar(&message, "message", "hello threshold eddsa", "message to sign")
	cmd.Flags().StringVar(&signers, "signers", "", "comma-separated subset of party indices to sign with (default: first t)")
	return cmd
}

func runSimulate(cmd *cobra.Command, n, threshold int, message, signers string) error {
	out := cmd.OutOrStdout()
	ctx := context.Background()

	coord, err := coordinator.New(threshold, n)
	if err != nil {
		return err
	}

	ids := make([]party.ID, n)
	agents := make(map[party.ID]*agent.Agent, n)
	for i := 0; i < n; i++ {
		id := party.ID(fmt.Sprintf("p%d", i))
		ids[i] = id
		ag := agent.New(id)
		y, err := ag.Register()
		if err != nil {
			return fmt.Errorf("register %s: %w", id, err)
		}
		agents[id] = ag
		if err := coord.RegisterParty(id, y, ag); err != nil {
			return fmt.Errorf("register_party %s: %w", id, err)
		}
	}

	y, err := coord.RunKeygen(ctx)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	fmt.Fprintf(out, "joint public key: %x\n", y.Bytes())

	subset, err := resolveSigners(signers, ids, threshold)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signing with: %v\n", subset)

	sig, err := coord.RunSigning(ctx, subset, []byte(message))
	if err != nil {
		return fmt.Errorf("signing: %w", err)
	}
	fmt.Fprintf(out, "signature: %x\n", sig.Bytes())

	ok := core.VerifyStd(sig.Bytes(), []byte(message), y.Bytes())
	fmt.Fprintf(out, "independent verification: %v\n", ok)
	if !ok {
		return fmt.Errorf("signature failed independent verification")
	}
	return nil
}

func resolveSigners(spec string, ids []party.ID, threshold int) ([]party.ID, error) {
	if spec == "" {
		return ids[:threshold], nil
	}
	var chosen []party.ID
	idx := 0
	for _, tok := range splitComma(spec) {
		i, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid signer index %q: %w", tok, err)
		}
		if i < 0 || i >= len(ids) {
			return nil, fmt.Errorf("signer index %d out of range", i)
		}
		chosen = append(chosen, ids[i])
		idx++
	}
	return chosen, nil
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
