package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trip-press",
	Short: "A travel photo book planner",
	Long: `Trip Press turns a set of approved travel photos into a deterministic
photo book plan: days are segmented into events, near-duplicate bursts are
collapsed, and photos are laid out onto covers, intros, grids, spreads and
a schematic route map.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
