// Command journal is the command-line client for the training journal API.
//
// CONFIGURATION:
//
//	JOURNAL_API_URL     server base URL (default http://localhost:3000)
//	JOURNAL_TOKEN_FILE  where the access token is kept between runs
//
// Run `journal help` for the list of commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sakif/training-journal/internal/cli"
	"github.com/sakif/training-journal/internal/client"
	"github.com/sakif/training-journal/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "journal:", err)
		return 1
	}

	// Ctrl+C cancels the in-flight request instead of killing the process
	// mid-write of the token file.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(cfg.APIURL, client.NewFileStore(cfg.TokenFile))
	app := cli.New(api, os.Stdin, os.Stdout, os.Stderr)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		fmt.Fprintln(os.Stderr, "journal:", err)
		if hint := cli.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		return 1
	}
	return 0
}
