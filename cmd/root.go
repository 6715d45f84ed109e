package cmd

import (
	"io"

	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "midibars",
	Short:        "Cuts MIDI tracks by bars",
	Long:         `Reads MIDI files, maps seconds to bars across tempo changes and cuts tracks by bar ranges.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.InitLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", constants.GetLogLevel(), "debug, info, warn or error")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// ExecuteArgs runs the CLI with args and every flag back at its default,
// writing command output to out.
func ExecuteArgs(args []string, out io.Writer) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
