package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/secrets"
	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	otpTo            string
	otpTTL           time.Duration
	otpCode          string
	otpName          string
	otpOutput        string
	otpPasswordStdin bool

	// OTPCmd groups the one-time passcode commands.
	OTPCmd = &cobra.Command{
		Use:   "otp",
		Short: "Issue and redeem one-time passcodes",
		Long: `One-time passcodes gate decryption of a named file for a named recipient.

A code is valid once, for a limited time (5 minutes by default), and only for
the recipient and file name it was issued for.

Examples:
  hexalock otp send report.txt --to alice@example.com
  hexalock otp redeem report.txt.enc --to alice@example.com --code 482913
  hexalock otp purge`,
	}
)

func init() {
	for _, c := range []*cobra.Command{otpIssueCmd, otpSendCmd} {
		c.Flags().StringVar(&otpTo, "to", "", "recipient the code is issued to")
		c.Flags().DurationVar(&otpTTL, "ttl", 0, "how long the code stays valid (default: from config)")
	}

	otpRedeemCmd.Flags().StringVar(&otpTo, "to", "", "recipient the code was issued to")
	otpRedeemCmd.Flags().StringVar(&otpCode, "code", "", "the 6-digit code")
	otpRedeemCmd.Flags().StringVar(&otpName, "name", "", "file name the code was issued for (default: the file's base name without .enc)")
	otpRedeemCmd.Flags().StringVarP(&otpOutput, "output", "o", "", "write the plaintext here")
	otpRedeemCmd.Flags().BoolVar(&otpPasswordStdin, "password-stdin", false, "read the password from stdin")

	otpListCmd.Flags().StringVar(&otpTo, "to", "", "recipient whose codes are listed")

	OTPCmd.AddCommand(otpIssueCmd)
	OTPCmd.AddCommand(otpSendCmd)
	OTPCmd.AddCommand(otpRedeemCmd)
	OTPCmd.AddCommand(otpPurgeCmd)
	OTPCmd.AddCommand(otpListCmd)
}

// resetOTPCommandState resets the otp commands' global state for testing.
func resetOTPCommandState() {
	otpTo = ""
	otpTTL = 0
	otpCode = ""
	otpName = ""
	otpOutput = ""
	otpPasswordStdin = false
}

var otpIssueCmd = &cobra.Command{
	Use:   "issue <filename>",
	Short: "Issues a code and prints it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting otp issue command")
		spinner, cleanup := startSpinner(cmd, "Issuing OTP...")
		defer cleanup()

		a, err := openApp(context.Background(), cmd.OutOrStdout())
		if err != nil {
			return finish(spinner, "open the HexaLock database", err)
		}
		defer a.Close()

		result, err := a.wf.IssueOTP(context.Background(), issueOptions(a, args[0]))
		if result == nil {
			return finish(spinner, "issue an OTP", err)
		}

		spinner.FinalMSG = ui.SuccessLine("OTP for "+ui.Highlight.Sprint(result.Recipient)+" on "+
			ui.Path.Sprint(result.Filename)+": "+ui.Code.Sprint(result.Code)) + "\n" +
			ui.Hint("Valid until "+result.Expiry.Local().Format(time.DateTime))
		if err != nil {
			spinner.FinalMSG += auditWarning(err)
			return err
		}
		return nil
	},
}

var otpSendCmd = &cobra.Command{
	Use:   "send <filename>",
	Short: "Issues a code and delivers it to the recipient",
	Long: `Issues a code and delivers it with the configured notifier (console,
outbox or postmark). If delivery fails the code stays valid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting otp send command")
		spinner, cleanup := startSpinner(cmd, "Sending OTP...")
		defer cleanup()

		a, err := openApp(context.Background(), cmd.OutOrStdout())
		if err != nil {
			return finish(spinner, "open the HexaLock database", err)
		}
		defer a.Close()

		// The console notifier prints; keep the spinner out of its way.
		spinner.Stop()

		result, err := a.wf.SendOTP(context.Background(), issueOptions(a, args[0]))
		if result == nil {
			return finish(spinner, "issue an OTP", err)
		}
		if !result.Delivered {
			spinner.FinalMSG = formatError("send the OTP", err) + "\n" +
				ui.Hint("The code was issued and stays valid until "+result.Expiry.Local().Format(time.DateTime))
			return err
		}

		spinner.FinalMSG = ui.SuccessLine("OTP sent to " + ui.Highlight.Sprint(result.Recipient) +
			" for " + ui.Path.Sprint(result.Filename))
		if err != nil {
			spinner.FinalMSG += auditWarning(err)
			return err
		}
		return nil
	},
}

func issueOptions(a *app, filename string) workflows.IssueOptions {
	to := otpTo
	if to == "" {
		to = a.cfg.User
	}
	ttl := otpTTL
	if ttl == 0 {
		ttl = time.Duration(a.cfg.OTP.TTL)
	}
	return workflows.IssueOptions{Recipient: to, Filename: filename, TTL: ttl}
}

var otpRedeemCmd = &cobra.Command{
	Use:   "redeem <file.enc>",
	Short: "Decrypts a file after checking a one-time passcode",
	Long: `Consumes the code and, only if it is valid, decrypts the file.

An invalid code never touches the file. A valid code is spent even if the
password turns out to be wrong.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting otp redeem command")

		password, err := readPassword(cmd, otpPasswordStdin, false)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError("read the password", err))
			return nil
		}

		spinner, cleanup := startSpinner(cmd, "Checking OTP...")
		defer cleanup()

		a, err := openApp(context.Background(), cmd.OutOrStdout())
		if err != nil {
			return finish(spinner, "open the HexaLock database", err)
		}
		defer a.Close()

		to := otpTo
		if to == "" {
			to = a.cfg.User
		}
		name := otpName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), secrets.EncryptedExt)
		}
		Logger.Debugf("Redeeming OTP for %s on %s", to, name)

		result, err := a.wf.DecryptWithOTP(context.Background(), workflows.RedeemOptions{
			Path:      args[0],
			Output:    otpOutput,
			Recipient: to,
			Filename:  name,
			Code:      otpCode,
			Password:  password,
		})
		if result == nil {
			return finish(spinner, "decrypt "+args[0], err)
		}

		spinner.FinalMSG = ui.SuccessLine("OTP accepted. File decrypted: " + ui.Path.Sprint(result.Output))
		if err != nil {
			spinner.FinalMSG += auditWarning(err)
			return err
		}
		return nil
	},
}

var otpPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Deletes expired codes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting otp purge command")
		spinner, cleanup := startSpinner(cmd, "Purging expired OTPs...")
		defer cleanup()

		a, err := openApp(context.Background(), cmd.OutOrStdout())
		if err != nil {
			return finish(spinner, "open the HexaLock database", err)
		}
		defer a.Close()

		n, err := a.wf.PurgeOTPs(context.Background(), a.cfg.User)
		if err != nil && !errors.Is(err, kerrors.ErrAudit) {
			return finish(spinner, "purge expired OTPs", err)
		}

		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Purged %d expired OTP(s)", n))
		if err != nil {
			spinner.FinalMSG += auditWarning(err)
			return err
		}
		return nil
	},
}

var otpListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists unexpired codes for a recipient",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting otp list command")

		a, err := openApp(context.Background(), cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError("open the HexaLock database", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}
		defer a.Close()

		to := otpTo
		if to == "" {
			to = a.cfg.User
		}

		records, err := a.wf.Outstanding(context.Background(), to)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError("list OTPs", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No outstanding OTPs for "+ui.Highlight.Sprint(to)+".")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s  %s  expires %s\n",
				ui.Code.Sprint(ui.MaskCode(r.Code)), ui.PadRight(r.Filename, 24), r.Expiry.Local().Format(time.DateTime))
		}
		return nil
	},
}
