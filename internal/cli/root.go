package cli

import (
	"io"

	"github.com/soyeahso/cordkit/internal/config"
	"github.com/soyeahso/cordkit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths     config.Paths
	cfg       config.Config
	log       *logging.Logger
	logCloser io.Closer
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cordkit",
		Short: "cordkit: typed Discord REST toolkit",
		Long:  "cordkit sends and manages Discord messages. It also decodes snowflakes and checks message components.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			if err := config.LoadEnvFile(paths.Env); err != nil {
				return err
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log, logCloser, err = logging.Open(logging.Options{
				Level: level,
				Style: cfg.Logging.ConsoleStyle,
				File:  cfg.Logging.File,
			})
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.cordkit/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newSnowflakeCmd())
	cmd.AddCommand(newComponentsCmd())
	cmd.AddCommand(newMessageCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return execute(newRootCmd())
}

// execute runs cmd and closes the log file whether or not the command failed.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := closeLog(); err == nil {
		err = cerr
	}
	return err
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}
