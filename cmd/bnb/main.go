package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bnb",
		Short: "Binary integer programming by branch-and-bound",
		Long: `bnb maximizes c^T x subject to A x <= b over x in {0,1}^n.

Instances are read from text files holding n and m, the n objective
coefficients and m rows of n coefficients followed by the right-hand side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newSolveCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
