// Package cli implements the `journal` command-line client.
//
// Each subcommand is a small function that parses its own flags with a
// flag.FlagSet, calls one or two client methods and prints the result.
// The token lives in the client's CredentialStore, so `journal login` once
// and every later command is authenticated until the token expires.
//
// Usage:
//
//	journal login -email me@example.com
//	journal session-add -date 2025-01-03 -feeling 7 -performance 6 -rating 8
//	journal chart
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sakif/training-journal/internal/client"
)

// ErrUsage is returned for a missing or malformed command line. The usage
// text has already been printed when it is returned.
var ErrUsage = errors.New("usage error")

// App is one invocation of the CLI.
type App struct {
	api    *client.Client
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

type runFunc func(a *App, ctx context.Context, args []string) error

// commands maps each subcommand to its implementation.
var commands = map[string]runFunc{
	"register":    (*App).register,
	"login":       (*App).login,
	"logout":      (*App).logout,
	"whoami":      (*App).whoami,
	"sessions":    (*App).sessions,
	"session-add": (*App).sessionAdd,
	"session-rm":  (*App).sessionRemove,
	"notes":       (*App).notes,
	"note-add":    (*App).noteAdd,
	"chart":       (*App).showChart,
	"themes":      (*App).themes,
	"theme-add":   (*App).themeAdd,
	"theme-rm":    (*App).themeRemove,
	"tasks":       (*App).tasks,
	"task-add":    (*App).taskAdd,
	"task-done":   (*App).taskDone,
	"task-undo":   (*App).taskUndo,
	"task-rm":     (*App).taskRemove,
}

// usages is kept apart from commands: the command functions print their
// own usage, and a single table would refer to itself during init.
var usages = map[string]string{
	"register":    "register [-email E] [-password P]",
	"login":       "login [-email E] [-password P]",
	"logout":      "logout",
	"whoami":      "whoami",
	"sessions":    "sessions [-past]",
	"session-add": "session-add -date D -feeling N -performance N -rating N [-feedback T]",
	"session-rm":  "session-rm ID",
	"notes":       "notes SESSION_ID",
	"note-add":    "note-add SESSION_ID TEXT...",
	"chart":       "chart [-past]",
	"themes":      "themes",
	"theme-add":   "theme-add -name N -start D -end D",
	"theme-rm":    "theme-rm ID",
	"tasks":       "tasks",
	"task-add":    "task-add TITLE...",
	"task-done":   "task-done ID",
	"task-undo":   "task-undo ID",
	"task-rm":     "task-rm ID",
}

// New creates an App that reads prompts from in and writes to out/errOut.
func New(api *client.Client, in io.Reader, out, errOut io.Writer) *App {
	return &App{api: api, in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Run dispatches args[0] to its subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printHelp()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}

	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n\n", args[0])
		a.printHelp()
		return ErrUsage
	}
	return run(a, ctx, args[1:])
}

func (a *App) printHelp() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.errOut, "usage: journal <command> [flags]")
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "commands:")
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %s\n", usages[name])
	}
}

// flags returns a FlagSet that reports errors to a.errOut instead of exiting.
func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "usage: journal %s\n", usages[name])
		fs.PrintDefaults()
	}
	return fs
}

// parse runs fs.Parse and folds -h and bad flags into ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	return nil
}

// oneArg returns the single positional argument of a command like
// `task-done ID`.
func (a *App) oneArg(name string, args []string) (string, error) {
	fs := a.flags(name)
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		fs.Usage()
		return "", ErrUsage
	}
	return fs.Arg(0), nil
}
