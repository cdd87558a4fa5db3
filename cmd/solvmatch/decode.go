package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/solvmatch/codec"
	"github.com/hupe1980/solvmatch/core"
)

// PairResponse is the JSON form of an encoded pair.
type PairResponse struct {
	Pair     core.PairID `json:"pair_id"`
	SolventA core.ID     `json:"solvent_a_id"`
	SolventB core.ID     `json:"solvent_b_id"`
}

func newDecodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <pair-id>...",
		Short: "Print the solvent ids behind pair ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]PairResponse, 0, len(args))
			for _, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid pair id %q: %w", arg, err)
				}
				a, b, err := core.DecodePair(core.PairID(v))
				if err != nil {
					return err
				}
				out = append(out, PairResponse{Pair: core.PairID(v), SolventA: a, SolventB: b})
			}
			return printPairs(cmd, out, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode <solvent-id> <solvent-id>",
		Short: "Print the pair id of two solvent ids",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids [2]core.ID
			for i, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid solvent id %q: %w", arg, err)
				}
				if err := core.ValidateID(v); err != nil {
					return err
				}
				ids[i] = core.ID(v)
			}
			p, err := core.OrderedPair(ids[0], ids[1])
			if err != nil {
				return err
			}
			a, b := min(ids[0], ids[1]), max(ids[0], ids[1])
			return printPairs(cmd, []PairResponse{{Pair: p, SolventA: a, SolventB: b}}, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printPairs(cmd *cobra.Command, pairs []PairResponse, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		b, err := codec.Pretty(codec.Default, pairs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%d\t%d\t%d\n", p.Pair, p.SolventA, p.SolventB)
	}
	return nil
}
