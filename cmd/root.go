// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nmfconv",
	Short: "nmfconv - batch converter for packetized call-recording containers",
	Long: `nmfconv extracts the caller and receiver audio streams from proprietary
packetized call-recording containers (.nmf) and produces one mixed MP3 per
recording using ffmpeg.

A batch run walks a source tree, mirrors its directory layout into the
output directory, and keeps going when individual files fail to parse or
encode.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yml",
		"config file path")
}
