package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchrig/serialkw"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "serialkw",
	Short: "Serial port keyword runner",
	Long: `serialkw drives serial ports through the same keyword surface a
table-driven test runner uses: list com ports, send data, or execute a
whole keyword table against real or loopback ports.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default serialkw.yaml in the working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("encoding", "", "default encoding for data keywords (hexlify, ascii, ...)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("encoding", rootCmd.PersistentFlags().Lookup("encoding"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("serialkw")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("SERIALKW")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newLibrary builds a Library from the resolved configuration: default
// encoding and a `defaults:` map of port parameters.
func newLibrary() (*serialkw.Library, error) {
	opts := []serialkw.Option{serialkw.WithLogger(newLogger())}
	if enc := viper.GetString("encoding"); enc != "" {
		opts = append(opts, serialkw.WithEncoding(enc))
	}
	if defaults := viper.GetStringMap("defaults"); len(defaults) > 0 {
		opts = append(opts, serialkw.WithDefaults(defaults))
	}
	return serialkw.New(opts...)
}
