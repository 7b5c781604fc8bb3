// Package cli provides the interactive taskledger command-line client.
//
// It wires configuration, the local SQLite store, the session manager, the
// ledger connector and the task service behind a small REPL. On start the
// persisted session is restored; every session change rebinds the ledger
// client to the new signing identity.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
