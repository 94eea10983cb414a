package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/utils"
	"github.com/PolarWolf314/hexalock/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	encryptOutput        string
	encryptPasswordStdin bool
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "write the encrypted file here (single file only)")
	encryptCmd.Flags().BoolVar(&encryptPasswordStdin, "password-stdin", false, "read the password from stdin")
}

// resetEncryptCommandState resets the encrypt command's global state for testing.
func resetEncryptCommandState() {
	encryptOutput = ""
	encryptPasswordStdin = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file|dir|glob>...",
	Short: "Encrypts files under a password",
	Long: `Encrypts each file with a key derived from your password.

The encrypted copy is written next to the original with a .enc suffix. The
plaintext is left in place. Directories and glob patterns (including **) are
expanded; files that are already encrypted are skipped.

Examples:
  hexalock encrypt report.txt
  hexalock encrypt report.txt -o /backup/report.bin
  hexalock encrypt "docs/**/*.md"
  echo "$PW" | hexalock encrypt --password-stdin report.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")

	if encryptOutput != "" && len(args) > 1 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FailureLine(ui.Code.Sprint("--output")+" can only be used with a single file"))
		return nil
	}

	password, err := readPassword(cmd, encryptPasswordStdin, true)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError("read the password", err))
		return nil
	}

	spinner, cleanup := startSpinner(cmd, "Encrypting files...")
	defer cleanup()

	a, err := openApp(context.Background(), cmd.OutOrStdout())
	if err != nil {
		return finish(spinner, "open the HexaLock database", err)
	}
	defer a.Close()

	if encryptOutput != "" {
		result, err := a.wf.EncryptFile(context.Background(), workflows.EncryptOptions{
			Path:     args[0],
			Password: password,
			User:     a.cfg.User,
			Output:   encryptOutput,
		})
		if result == nil {
			return finish(spinner, "encrypt "+args[0], err)
		}
		spinner.FinalMSG = ui.SuccessLine("File encrypted: " + ui.Path.Sprint(result.Output))
		if err != nil {
			spinner.FinalMSG += auditWarning(err)
			return err
		}
		return nil
	}

	result, err := a.wf.EncryptFiles(context.Background(), workflows.EncryptFilesOptions{
		Patterns: args,
		Password: password,
		User:     a.cfg.User,
	})
	if err != nil {
		return finish(spinner, "encrypt files", err)
	}

	Logger.Infof("Encrypted %d file(s), %d failed", len(result.Encrypted), len(result.Failed))
	return reportEncryptFiles(spinner, result)
}

// reportEncryptFiles builds the final message for a batch and returns an
// error only when a file failed for an unexpected reason.
func reportEncryptFiles(s *spinner.Spinner, result *workflows.EncryptFilesResult) error {
	var msg strings.Builder
	var outputs []string
	for _, r := range result.Encrypted {
		outputs = append(outputs, r.Output)
	}

	if len(outputs) > 0 {
		msg.WriteString(ui.SuccessLine(fmt.Sprintf("Encrypted %d file(s)", len(outputs))))
		msg.WriteString(utils.FormatPaths(outputs))
	}

	var failed []string
	for path := range result.Failed {
		failed = append(failed, path)
	}
	sort.Strings(failed)

	var unexpected []error
	for _, path := range failed {
		err := result.Failed[path]
		if containsOutput(result, path) {
			// Encrypted, but the audit entry was lost.
			msg.WriteString(ui.WarningLine(ui.Path.Sprint(path)+": the audit entry was not recorded") + "\n")
			unexpected = append(unexpected, err)
			continue
		}
		msg.WriteString(ui.FailureLine(ui.Path.Sprint(path)) + "\n    " + ui.ErrorDetail(err) + "\n")
		if isUnexpectedError(err) {
			unexpected = append(unexpected, err)
		}
	}

	if len(outputs) > 0 && len(failed) == 0 {
		msg.WriteString(ui.Hint("Decrypt with " + ui.Code.Sprint("hexalock decrypt <file>.enc")))
	}

	s.FinalMSG = msg.String()
	return errors.Join(unexpected...)
}

func containsOutput(result *workflows.EncryptFilesResult, source string) bool {
	for _, r := range result.Encrypted {
		if r.Source == source {
			return true
		}
	}
	return false
}
