// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/internal/log"
)

var (
	// Global flags
	configFile string
	logLevel   string

	// appConfig is loaded before any subcommand runs.
	appConfig = &config.Config{Output: config.OutputConfig{Format: "hex"}}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "attrcodec",
	Short: "attrcodec - RADIUS attribute value codec",
	Long: `attrcodec converts RADIUS attribute values between their textual form
and the bytes carried on the wire.

Supported types include string, octets, ipaddr, ipv6addr, ipv6prefix,
ipv4prefix, integer, integer64, date, ether, abinary and ifid. Run
"attrcodec types" for the full list.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults and ATTRCODEC_* environment when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override log level (trace/debug/info/warn/error)")
}

func setup() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.ValidateAndApplyDefaults(); err != nil {
			return err
		}
	}
	if err := log.Init(cfg.Log); err != nil {
		return err
	}
	appConfig = cfg
	log.GetLogger().WithField("config", configFile).Debug("configuration loaded")
	return nil
}
