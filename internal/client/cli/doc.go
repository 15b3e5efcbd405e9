// Package cli provides the interactive Kvits command-line client.
//
// It wires configuration, the local SQLite store, the remote receipt API and
// an interactive REPL that works fully offline. Typical flow: restore the
// cached session, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Add receipts manually or from a photo (with best-effort extraction)
//   - List / Show / Delete receipts, always available offline
//   - Spending statistics over the local record set
//   - Sync with the cloud copy, including force push/pull overrides
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
