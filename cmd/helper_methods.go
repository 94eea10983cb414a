package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message and prints it to the command's output.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.OutOrStdout(), finalMsg)
		}
	}

	return s, cleanup
}

// readPassword reads the password from stdin when fromStdin is set, otherwise
// prompts on the terminal. confirm asks twice, for new files.
func readPassword(cmd *cobra.Command, fromStdin, confirm bool) (string, error) {
	if fromStdin {
		pw, err := utils.ReadPasswordFrom(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("%w: %v", kerrors.ErrInvalidInput, err)
		}
		return pw, nil
	}

	if !utils.IsTerminal() {
		return "", fmt.Errorf("%w: stdin is not a terminal, use --password-stdin", kerrors.ErrInvalidInput)
	}

	var pw []byte
	var err error
	if confirm {
		pw, err = utils.ReadNewPassphrase("Password: ", "Confirm password: ")
	} else {
		pw, err = utils.ReadPassphrase("Password: ")
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrInvalidInput, err)
	}
	if len(pw) == 0 {
		return "", fmt.Errorf("%w: password must not be empty", kerrors.ErrInvalidInput)
	}
	return string(pw), nil
}

// formatError turns a workflow error into the final message shown to the user.
func formatError(action string, err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidOTP):
		return ui.FailureLine("Invalid or expired OTP") + "\n" +
			ui.Hint("Request a new code with " + ui.Code.Sprint("hexalock otp send"))

	case errors.Is(err, kerrors.ErrAuthentication):
		return ui.FailureLine("Wrong password or corrupted file") + "\n" +
			ui.Hint("Check the password. A modified file cannot be recovered")

	case errors.Is(err, kerrors.ErrPayloadExpired):
		return ui.FailureLine("The encrypted file is older than the allowed age") + "\n" +
			ui.Hint("Adjust " + ui.Code.Sprint("cipher.max_payload_age") + " in your config")

	case errors.Is(err, kerrors.ErrFormat):
		return ui.FailureLine("Not a HexaLock file, or the file is truncated") + "\n" +
			ui.ErrorDetail(err)

	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.FailureLine("File not found") + "\n" + ui.ErrorDetail(err)

	case errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.FailureLine("No matching files found")

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return ui.FailureLine("Configuration is invalid") + "\n" +
			ui.ErrorDetail(err) + "\n" +
			ui.Hint("Run " + ui.Code.Sprint("hexalock config show") + " to inspect it")

	case errors.Is(err, kerrors.ErrInvalidInput):
		return ui.FailureLine(err.Error())

	case errors.Is(err, kerrors.ErrNotify):
		return ui.FailureLine("Failed to deliver the OTP") + "\n" + ui.ErrorDetail(err)

	default:
		return ui.FailureLine("Failed to "+action) + "\n" + ui.ErrorDetail(err)
	}
}

// isUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrInvalidOTP),
		errors.Is(err, kerrors.ErrAuthentication),
		errors.Is(err, kerrors.ErrPayloadExpired),
		errors.Is(err, kerrors.ErrFormat),
		errors.Is(err, kerrors.ErrFileNotFound),
		errors.Is(err, kerrors.ErrNoFilesFound),
		errors.Is(err, kerrors.ErrInvalidConfig),
		errors.Is(err, kerrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}

// auditWarning is appended to a success message when the audit entry was lost.
func auditWarning(err error) string {
	return "\n" + ui.WarningLine("The audit entry was not recorded: "+err.Error())
}

// finish sets the final message for err and decides the exit status.
func finish(s *spinner.Spinner, action string, err error) error {
	s.FinalMSG = formatError(action, err)
	if isUnexpectedError(err) {
		return err
	}
	return nil
}
