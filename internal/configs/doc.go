// Package configs resolves HexaLock's settings and configuration.
//
// # Settings
//
// Settings are the per-user locations derived from the environment:
//   - Config directory: <user config dir>/hexalock (config.toml)
//   - Data directory: $XDG_DATA_HOME/hexalock or ~/.local/share/hexalock
//     (hexalock.db, audit.jsonl, outbox/)
//
// # Configuration
//
// The effective Config is layered, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. The TOML file at Settings.ConfigPath, if present
//  3. HEXALOCK_* environment variables, e.g. HEXALOCK_DB_PATH,
//     HEXALOCK_AUDIT_BACKEND, HEXALOCK_OTP_TTL, HEXALOCK_KDF_TIME
//  4. Command-line flags, applied by the cmd package
//
// Durations are written as Go duration strings ("5m", "720h") in both TOML
// and the environment.
package configs
