package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	demoDir           string
	demoKeep          bool
	demoPasswordStdin bool
)

func init() {
	demoCmd.Flags().StringVar(&demoDir, "dir", "", "directory for the sample files (default: a temporary directory)")
	demoCmd.Flags().BoolVar(&demoKeep, "keep", false, "keep the sample, encrypted and decrypted files")
	demoCmd.Flags().BoolVar(&demoPasswordStdin, "password-stdin", false, "read the password from stdin")
}

// resetDemoCommandState resets the demo command's global state for testing.
func resetDemoCommandState() {
	demoDir = ""
	demoKeep = false
	demoPasswordStdin = false
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Runs an encrypt and decrypt cycle on a sample file",
	Long: `Writes a sample file, encrypts it, decrypts it again and checks the
round trip. Every step is recorded in the audit log under the user "demo"
unless --user is given.

Examples:
  hexalock demo
  hexalock demo --dir ./playground --keep`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting demo command")

	password, err := readPassword(cmd, demoPasswordStdin, false)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError("read the password", err))
		return nil
	}

	spinner, cleanup := startSpinner(cmd, "Running encryption demo...")
	defer cleanup()

	a, err := openApp(context.Background(), cmd.OutOrStdout())
	if err != nil {
		return finish(spinner, "open the HexaLock database", err)
	}
	defer a.Close()

	result, err := a.wf.Demo(context.Background(), workflows.DemoOptions{
		Dir:      demoDir,
		Password: password,
		User:     userFlag,
		Keep:     demoKeep,
	})
	if result == nil {
		return finish(spinner, "run the demo", err)
	}

	if !result.Match {
		spinner.FinalMSG = ui.FailureLine("Decrypted content does not match the sample")
		return fmt.Errorf("demo round trip mismatch")
	}

	msg := ui.SuccessLine("Encrypted and decrypted " + ui.Path.Sprint(workflows.DemoFilename) + " successfully")
	if result.Existing {
		msg += "\n" + ui.Hint("Used the existing "+ui.Path.Sprint(result.Plaintext)+"; it was left untouched")
	}
	if demoKeep {
		msg += "\n" + ui.Hint("Files kept: "+ui.Path.Sprint(result.Plaintext)+", "+
			ui.Path.Sprint(result.Encrypted)+", "+ui.Path.Sprint(result.Decrypted))
	}
	spinner.FinalMSG = msg
	if err != nil {
		spinner.FinalMSG += auditWarning(err)
		return err
	}
	return nil
}
