// Package cli implements the interactive shell. Commands operate on the
// local store and never block on sync: offline writes succeed locally and
// are reconciled once the gateway is reachable again.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/dockeeper/internal/completion"
	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/services"
	"github.com/dmitrijs2005/dockeeper/internal/session"
)

// TokenSetter receives the bearer token once a session is installed.
// The HTTP gateway satisfies it.
type TokenSetter interface {
	SetToken(token string)
}

type App struct {
	projects   services.ProjectService
	docs       services.DocumentService
	info       services.StandardInfoService
	sync       *services.SyncService
	completion *completion.Service
	tokens     TokenSetter
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(projects services.ProjectService, docs services.DocumentService, info services.StandardInfoService, sync *services.SyncService, completion *completion.Service, tokens TokenSetter, log logging.Logger) *App {
	return &App{
		projects:   projects,
		docs:       docs,
		info:       info,
		sync:       sync,
		completion: completion,
		tokens:     tokens,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
}

// Login parses the token and installs the session; while online this kicks
// off a sync cycle before returning.
func (a *App) Login(ctx context.Context, token string) error {
	sess, err := session.Parse(token)
	if err != nil {
		return err
	}
	a.tokens.SetToken(token)
	a.sync.SetSession(ctx, sess)
	fmt.Fprintf(a.out, "Logged in as %s\n", sess.UserID)
	return nil
}

// owner returns the active session's user id, "" when logged out.
func (a *App) owner() string {
	sess := a.sync.Session()
	if sess == nil {
		return ""
	}
	return sess.UserID
}

func (a *App) isLoggedIn() bool {
	return a.owner() != ""
}

func (a *App) printHelp() {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: login <token>, status, exit")
		return
	}
	fmt.Fprintln(a.out, `Available commands:
  projects                 list projects
  docs [project]           list documents, optionally for one project
  info [category]          list standard info entries
  addproject | adddoc | addinfo
  editdoc <id>             rewrite a document's content
  delproject <id> | deldoc <id> | delinfo <id>
  show <doc id>            print a document
  ask                      generate a completion
  sync                     run a sync cycle now
  reset                    re-enable records stuck past the retry limit
  status                   show sync state
  cache [clear]            completion cache statistics
  exit`)
}

// Run drives the read-eval-print loop until EOF or exit.
func (a *App) Run(ctx context.Context) {
	a.log.Debug(ctx, "repl started")
	fmt.Fprintln(a.out, "dockeeper (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "dockeeper %s > ", a.prompt())
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "login":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: login <token>")
				continue
			}
			a.report(a.Login(ctx, args[0]))
		case "projects":
			a.report(a.listProjects(ctx))
		case "docs":
			a.report(a.listDocs(ctx, args))
		case "info":
			a.report(a.listInfo(ctx, args))
		case "addproject":
			a.report(a.addProject(ctx))
		case "adddoc":
			a.report(a.addDoc(ctx))
		case "addinfo":
			a.report(a.addInfo(ctx))
		case "editdoc":
			a.report(a.editDoc(ctx, args))
		case "delproject":
			a.report(a.deleteRecord(ctx, args, a.projects.Delete))
		case "deldoc":
			a.report(a.deleteRecord(ctx, args, a.docs.Delete))
		case "delinfo":
			a.report(a.deleteRecord(ctx, args, a.info.Delete))
		case "show":
			a.report(a.showDoc(ctx, args))
		case "ask":
			a.report(a.ask(ctx))
		case "sync":
			a.report(a.runSync(ctx))
		case "reset":
			a.report(a.sync.ResetErrors(ctx))
		case "status":
			a.printStatus()
		case "cache":
			a.report(a.cacheCmd(ctx, args))
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) prompt() string {
	state := a.sync.State()
	mode := "offline"
	if state.IsOnline {
		mode = "online"
	}
	if !a.isLoggedIn() {
		return mode + ", logged out"
	}
	return fmt.Sprintf("%s, %s", mode, a.owner())
}

// report prints handler errors without breaking the loop.
func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
	}
}
