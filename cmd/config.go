package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/hexalock/internal/configs"
	"github.com/PolarWolf314/hexalock/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configShowJSON  bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage HexaLock configuration",
		Long: `Provides commands for managing the HexaLock configuration file.

Settings are read from defaults, then config.toml, then HEXALOCK_* environment
variables (for example HEXALOCK_DB_PATH, HEXALOCK_AUDIT_BACKEND,
HEXALOCK_NOTIFY_BACKEND, HEXALOCK_OTP_TTL, HEXALOCK_KDF_MEMORY_KIB).

Examples:
  # Write the default configuration
  hexalock config init

  # Show the effective configuration
  hexalock config show`,
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitForce = false
	configShowJSON = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		out := cmd.OutOrStdout()

		settings, err := configs.LoadSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}
		path := configPath
		if path == "" {
			path = settings.ConfigPath()
		}
		Logger.Debugf("Config path: %s", path)

		if configs.Exists(path) && !configInitForce {
			fmt.Fprintln(out, ui.FailureLine("Config file already exists at "+ui.Path.Sprint(path)))
			fmt.Fprintln(out, ui.Hint("Use "+ui.Code.Sprint("--force")+" to overwrite it"))
			return nil
		}

		cfg := configs.Default(settings)
		if userFlag != "" {
			cfg.User = userFlag
		}
		if err := configs.Save(path, cfg); err != nil {
			return Logger.ErrorfAndReturn("Failed to write %s: %v", path, err)
		}

		fmt.Fprintln(out, ui.SuccessLine("Configuration written to "+ui.Path.Sprint(path)))
		fmt.Fprintln(out, ui.Hint("Data will be stored in "+ui.Path.Sprint(filepath.Dir(cfg.Database.Path))))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		out := cmd.OutOrStdout()

		_, cfg, path, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, formatError("load the configuration", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		// Never print credentials.
		if cfg.Notify.Postmark.ServerToken != "" {
			cfg.Notify.Postmark.ServerToken = "********"
		}
		if cfg.Notify.Postmark.AccountToken != "" {
			cfg.Notify.Postmark.AccountToken = "********"
		}

		if configShowJSON {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		source := ui.Muted.Sprint("defaults")
		if configs.Exists(path) {
			source = ui.Path.Sprint(path)
		}
		fmt.Fprintln(out, ui.Info.Sprint("Configuration")+" ("+source+"):")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %-16s %s\n", "User:", ui.Highlight.Sprint(cfg.User))
		fmt.Fprintf(out, "  %-16s %s\n", "Database:", ui.Path.Sprint(cfg.Database.Path))
		if cfg.Audit.Backend == configs.AuditJSONL {
			fmt.Fprintf(out, "  %-16s %s (%s)\n", "Audit log:", cfg.Audit.Backend, ui.Path.Sprint(cfg.Audit.Path))
		} else {
			fmt.Fprintf(out, "  %-16s %s\n", "Audit log:", cfg.Audit.Backend)
		}
		fmt.Fprintf(out, "  %-16s %s\n", "OTP lifetime:", cfg.OTP.TTL)
		fmt.Fprintf(out, "  %-16s %s\n", "Notifier:", cfg.Notify.Backend)
		switch cfg.Notify.Backend {
		case configs.NotifyOutbox:
			fmt.Fprintf(out, "  %-16s %s\n", "Outbox:", ui.Path.Sprint(cfg.Notify.OutboxDir))
		case configs.NotifyPostmark:
			fmt.Fprintf(out, "  %-16s %s\n", "Sender:", cfg.Notify.Postmark.SenderEmail)
		}
		fmt.Fprintf(out, "  %-16s argon2id time=%d memory=%d KiB threads=%d\n", "Key derivation:",
			cfg.KDF.Time, cfg.KDF.MemoryKiB, cfg.KDF.Threads)
		if cfg.Cipher.MaxPayloadAge > 0 {
			fmt.Fprintf(out, "  %-16s %s\n", "Max file age:", cfg.Cipher.MaxPayloadAge)
		}
		return nil
	},
}
