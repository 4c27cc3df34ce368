// Package cli wires the command-line surface of the engine binary.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/reelbeat/reelbeat-engine/internal/config"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "engine",
		Short:        "Local timeline editing engine for music video projects",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				os.Setenv(config.EnvPort, strconv.Itoa(port))
			}
			if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
				os.Setenv(config.EnvDataDir, dataDir)
			}
			return run()
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().Int("port", 0, "HTTP port (overrides "+config.EnvPort+")")
	root.Flags().String("data-dir", "", "Data directory (overrides "+config.EnvDataDir+")")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reelbeat-engine %s (commit %s, built %s)\n",
				config.Version, config.GitCommit, config.BuildTime)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
