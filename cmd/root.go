package cmd

import (
	"github.com/bnema/share-cli/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
	flagTunnel   = "tunnel"
	flagName     = "name"
	flagPassword = "password"
	flagPlain    = "plain"
)

func Execute() error {
	return newRootCmd().Execute()
}

type shareOptions struct {
	name     string
	password string
	plain    bool
}

func newRootCmd() *cobra.Command {
	opts := &shareOptions{}

	rootCmd := &cobra.Command{
		Use:   "share [file]",
		Short: "Share a file or directory as a one-time, password protected download",
		Long: "share packages a file, a directory or piped stdin into a password protected zip archive, " +
			"serves it over HTTP behind an unguessable link and closes shortly after it was downloaded.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShare(cmd, args, *opts)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.String(flagConfig, "", "config file (default $HOME/.config/share/config.toml)")
	persistent.String(flagLogLevel, "", "log level (panic, fatal, error, warn, info, debug, trace)")
	persistent.String(flagLogFile, "", "write logs to this file")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.name, flagName, "n", "", "download file name")
	flags.StringVarP(&opts.password, flagPassword, "p", "", "archive password (default: 16 random characters)")
	flags.Bool(flagTunnel, true, "expose the download through a public tunnel")
	flags.BoolVar(&opts.plain, flagPlain, false, "print plain status lines instead of the live view")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// loadConfig resolves the effective configuration: flags, then SHARE_ env,
// then the config file, then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return config.Config{}, "", err
	}

	v, err := config.NewViper(path)
	if err != nil {
		return config.Config{}, "", err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, "", err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		config.KeyLogLevel:      flagLogLevel,
		config.KeyLogFile:       flagLogFile,
		config.KeyTunnelEnabled: flagTunnel,
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
