package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	Scan(ctx context.Context, path string) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Sync(ctx context.Context) error
	Push(ctx context.Context) error
	Pull(ctx context.Context) error
	Stats(ctx context.Context, from, to string) error
	SetAutoSync(ctx context.Context, on bool) error
}

// runREPL starts a simple read–eval–print loop for the Kvits CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always available (receipts are local-first):
//	  - help                — show available commands
//	  - add                 — add a receipt interactively
//	  - scan [path]         — create a receipt from a photo
//	  - list                — list receipts
//	  - show [id]           — show a single receipt
//	  - delete [id]         — delete a receipt
//	  - stats [from] [to]   — spending summary, dates as YYYY-MM-DD
//	  - exit | quit         — leave the program
//
//	Signed out:
//	  - login               — cache an access token
//
//	Signed in:
//	  - sync                — run one reconciliation pass
//	  - push | pull         — directional overwrite (with confirmation)
//	  - autosync on|off     — toggle automatic sync
//	  - logout              — drop the cached token
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kvits> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: add, scan, (l)ist, show, delete, stats, exit")
			if a.isLoggedIn() {
				printlnFn("Sync commands: sync, push, pull, autosync on|off, logout")
			} else {
				printlnFn("Sign in with: login")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add":
			_ = a.Add(ctx)

		case "scan":
			_ = a.Scan(ctx, arg(0))

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, arg(0))

		case "delete":
			_ = a.Delete(ctx, arg(0))

		case "stats":
			_ = a.Stats(ctx, arg(0), arg(1))

		case "sync":
			_ = a.Sync(ctx)

		case "push":
			_ = a.Push(ctx)

		case "pull":
			_ = a.Pull(ctx)

		case "autosync":
			switch arg(0) {
			case "on":
				_ = a.SetAutoSync(ctx, true)
			case "off":
				_ = a.SetAutoSync(ctx, false)
			default:
				printlnFn("Usage: autosync on|off")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
