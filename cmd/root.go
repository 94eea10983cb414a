package cmd

import (
	"fmt"

	logger "github.com/PolarWolf314/hexalock/internal/logging"
	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	userFlag   string
	Logger     logger.Logger

	// RootCmd is the hexalock command. main executes it.
	RootCmd = &cobra.Command{
		Use:   "hexalock",
		Short: "HexaLock - password-based file encryption with OTP-gated decryption.",
		Long: `HexaLock encrypts files with a key derived from a password, issues short-lived
one-time passcodes that gate decryption of a named file for a named recipient,
and keeps an audit trail of everything it does.

Usage:
  hexalock <command> [flags]

Run 'hexalock help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprint(out, ui.Success.Sprint(figure.NewFigure("HexaLock", "alligator2", true).String()))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Welcome to HexaLock! Run "+ui.Code.Sprint("hexalock --help")+" to see available commands.")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user recorded in the audit log (default: from config)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(demoCmd)
	RootCmd.AddCommand(OTPCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	userFlag = ""
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetDemoCommandState()
	resetOTPCommandState()
	resetLogCommandState()
	resetInspectCommandState()
	resetConfigCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears Changed on every flag so one test cannot leak into the next.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) { flag.Changed = false }
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
