package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "interior-kit",
	Short: "Room photo restyling with Gemini image models",
	Long: `interior-kit composes a room photo with furniture reference images and
renders it in a chosen interior style.

Configuration is read from the environment and an optional .env file
(GEMINI_API_KEY is required).

Examples:
  interior-kit serve
  interior-kit generate --base room.jpg --aux sofa.png --style japandi -o out.png
  interior-kit models
  interior-kit consult "Which flooring suits a small japandi bedroom?"`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(consultCmd)

	rootCmd.PersistentFlags().String("log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
}
