package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "STRETCHWAV"

// app carries what every subcommand needs once flags are resolved.
type app struct {
	v   *viper.Viper
	log *slog.Logger
	out io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "stretchwav",
		Short:         "Time-stretch and pitch-shift audio files",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().Bool("debug", false, "log debug output to stderr")

	root.AddCommand(
		newStretchCommand(a),
		newShiftCommand(a),
		newFlagsCommand(a),
	)
	return root
}

// init binds flags, environment and config file into one viper instance.
// Explicit flags win over the environment, which wins over the file.
func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	level := slog.LevelWarn
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.out = cmd.OutOrStdout()
	return nil
}
