package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	decryptOutput        string
	decryptPasswordStdin bool
)

func init() {
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "write the plaintext here (default: <file without .enc>.dec)")
	decryptCmd.Flags().BoolVar(&decryptPasswordStdin, "password-stdin", false, "read the password from stdin")
}

// resetDecryptCommandState resets the decrypt command's global state for testing.
func resetDecryptCommandState() {
	decryptOutput = ""
	decryptPasswordStdin = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file.enc>",
	Short: "Decrypts a file with its password",
	Long: `Decrypts a file produced by 'hexalock encrypt'.

The plaintext is written to <file without .enc>.dec unless --output is given.
A wrong password and a modified file are reported the same way.

Examples:
  hexalock decrypt report.txt.enc
  hexalock decrypt report.txt.enc -o report.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	password, err := readPassword(cmd, decryptPasswordStdin, false)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError("read the password", err))
		return nil
	}

	spinner, cleanup := startSpinner(cmd, "Decrypting "+args[0]+"...")
	defer cleanup()

	a, err := openApp(context.Background(), cmd.OutOrStdout())
	if err != nil {
		return finish(spinner, "open the HexaLock database", err)
	}
	defer a.Close()

	result, err := a.wf.DecryptFile(context.Background(), workflows.DecryptOptions{
		Path:     args[0],
		Password: password,
		User:     a.cfg.User,
		Output:   decryptOutput,
	})
	if result == nil {
		return finish(spinner, "decrypt "+args[0], err)
	}

	spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("File decrypted: %s %s",
		ui.Path.Sprint(result.Output), ui.Muted.Sprint(fmt.Sprintf("%d bytes", result.Size))))
	if err != nil {
		spinner.FinalMSG += auditWarning(err)
		return err
	}
	return nil
}
