package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"landing-waitlist/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "landing",
	Short: "Waitlist signup intake for the landing page",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.OpenConfig(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		customizeLogger(viper.GetString("log_level"), viper.GetString("log_format"))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "logging level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json|pretty)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func customizeLogger(level, format string) {
	if format == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	mode := viper.GetString("gin_mode")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}
