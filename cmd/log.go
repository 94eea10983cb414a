package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PolarWolf314/hexalock/internal/audit"
	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/PolarWolf314/hexalock/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit   int
	logUser    string
	logAction  string
	logSince   string
	logUntil   string
	logOneline bool
	logJSON    bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", workflows.DefaultLogLimit, "limit number of entries shown (-1 for all)")
	logCmd.Flags().StringVar(&logUser, "filter-user", "", "filter by user")
	logCmd.Flags().StringVar(&logAction, "action", "", "filter by action (e.g. encrypted, otp_decrypt_fail)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = workflows.DefaultLogLimit
	logUser = ""
	logAction = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays recent audit log entries, most recent first.

Examples:
  hexalock log                                # Last 10 entries
  hexalock log -n 50                          # Last 50 entries
  hexalock log -n -1                          # Everything
  hexalock log --filter-user alice@example.com
  hexalock log --action otp_decrypt_fail
  hexalock log --since 2026-01-01 --until 2026-01-31
  hexalock log --json`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")
	out := cmd.OutOrStdout()

	a, err := openApp(context.Background(), out)
	if err != nil {
		fmt.Fprintln(out, formatError("open the HexaLock database", err))
		if isUnexpectedError(err) {
			return err
		}
		return nil
	}
	defer a.Close()

	result, err := a.wf.Log(context.Background(), workflows.LogOptions{
		Limit:  logLimit,
		User:   logUser,
		Action: logAction,
		Since:  logSince,
		Until:  logUntil,
	})
	if err != nil {
		fmt.Fprintln(out, formatError("read the audit log", err))
		if isUnexpectedError(err) {
			return err
		}
		return nil
	}

	if len(result.Entries) == 0 {
		if logJSON {
			fmt.Fprintln(out, "[]")
			return nil
		}
		fmt.Fprintln(out, "No audit log entries found.")
		return nil
	}

	switch {
	case logJSON:
		return outputLogJSON(out, result.Entries)
	case logOneline:
		outputLogOneline(out, result.Entries)
	default:
		outputLogDefault(out, result.Entries)
	}
	return nil
}

func outputLogJSON(w io.Writer, entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputLogOneline(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s %s\n", e.Timestamp.Local().Format(time.DateOnly), e.User, e.Action, e.Filename)
	}
}

func outputLogDefault(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %s  %s  %s\n",
			e.Timestamp.Local().Format(time.DateTime),
			ui.PadRight(e.User, 25),
			ui.Action(e.Action).Sprint(ui.PadRight(e.Action, 19)),
			e.Filename)
	}
}
