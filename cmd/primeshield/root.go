package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "primeshield",
		Short: "Analyze the primality of consecutive prime pair sums",
		Long: `primeshield streams every prime up to N = 10^exponent, tests
S = p + q - 1 for each consecutive pair (p, q), and reports per-gap
success rates against the modular shield model.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newGeneralsCmd())
	return cmd
}
