package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/primeshield/primeshield/shield"
)

func newGeneralsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generals <n>",
		Short: "Print the first n terms of the shield general sequence",
		Long: `Each term k is the smallest even gap shielded from the first k
odd primes, i.e. the gap whose pair sums dodge divisibility by every
one of them. The sequence begins 4, 4, 34, 1924, 25024, 85084.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid term count %q", args[0])
			}

			terms, err := shield.Generals(n)
			if err != nil {
				return err
			}
			for i, g := range terms {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\n", i+1, g)
			}
			return nil
		},
	}
}
