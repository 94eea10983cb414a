// Package otp issues and redeems one-time passcodes that gate decryption.
//
// A code is bound to a (recipient, filename) pair and expires after a TTL.
// Redeeming a code deletes it, so a code can succeed at most once even when
// several callers race on it. Expired codes are never deleted implicitly;
// Purge removes them on request.
//
// Two Store backends are provided: SQLiteStore, persisted in the shared
// hexalock database, and MemoryStore for tests and one-shot sessions.
package otp
