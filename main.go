package main

import (
	"os"

	"github.com/spf13/cobra"

	"yashubustudio/assist/internal/app"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:          "assist",
		Short:        "Desktop lookup for course articulation equivalences",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.json (default: ./config.json)")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
