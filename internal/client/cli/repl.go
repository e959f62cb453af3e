package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// Test seams for user-facing output. In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Import(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Ban(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Launch(ctx context.Context, args []string) error
	RefreshNicknames(ctx context.Context) error
	RefreshBans(ctx context.Context) error
	Refresh(ctx context.Context) error
	APIKey(ctx context.Context, args []string) error
	ExePath(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	Backup(ctx context.Context) error
	Restore(ctx context.Context, args []string) error
	Backups(ctx context.Context) error
	Shutdown(ctx context.Context)
}

const helpText = `Available commands:
  (l)ist               list accounts
  show [#|id|user]     show one account
  add                  add an account
  import               paste accounts, one per line
  edit [#|id|user]     edit an account
  ban [#|id|user]      set ban status by hand
  delete [#|id|user]   delete an account
  launch [#|id|user]   log the Steam client in as an account
  nicknames            refresh nicknames from the Steam Web API
  bans                 refresh bans from the Steam Web API
  refresh              refresh nicknames and bans
  apikey [key]         show or set the Steam Web API key
  exepath [path]       show or set the Steam executable
  save                 save accounts now
  backup               write an encrypted backup
  restore [#|name]     restore an encrypted backup
  backups              list backups
  exit | quit          save and leave`

// runREPL reads a line, parses the first token as the command and
// dispatches to a. Handlers report their own errors, so the loop only does
// I/O. The loop ends on EOF or "exit"/"quit"; both save via Shutdown.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	defer a.Shutdown(ctx)

	for {
		printFn(fmt.Sprintf("sk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "l", "list", "ls":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "add":
			_ = a.Add(ctx)
		case "import":
			_ = a.Import(ctx)
		case "edit":
			_ = a.Edit(ctx, args)
		case "ban":
			_ = a.Ban(ctx, args)
		case "delete", "rm":
			_ = a.Delete(ctx, args)
		case "launch":
			_ = a.Launch(ctx, args)
		case "nicknames":
			_ = a.RefreshNicknames(ctx)
		case "bans":
			_ = a.RefreshBans(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "apikey":
			_ = a.APIKey(ctx, args)
		case "exepath":
			_ = a.ExePath(ctx, args)
		case "save":
			_ = a.Save(ctx)
		case "backup":
			_ = a.Backup(ctx)
		case "restore":
			_ = a.Restore(ctx, args)
		case "backups":
			_ = a.Backups(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd, "(type 'help' for commands)")
		}

		if ctx.Err() != nil {
			return
		}
	}
}
