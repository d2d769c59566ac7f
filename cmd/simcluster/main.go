package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/simcluster/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "simcluster",
	Short: "Cluster suspicious submission groups from pairwise similarity",
	Long: `simcluster groups submissions into suspicious clusters based on the
pairwise similarity scores produced by an upstream comparison stage.

It builds a similarity matrix from comparison records, optionally reshapes
the score distribution, and applies agglomerative or spectral clustering.
Each reported cluster carries a strength score separating in-cluster
similarity from similarity to the rest of the population.`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewClusterCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
