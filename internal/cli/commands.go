package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sakif/training-journal/internal/chart"
	"github.com/sakif/training-journal/internal/client"
	"github.com/sakif/training-journal/internal/model"
)

const dateLayout = "2006-01-02"

// Hint suggests what to do next for errors a user can fix themselves.
// It returns "" when there is nothing useful to add.
func Hint(err error) string {
	switch {
	case client.IsCode(err, "NO_TOKEN"), client.IsCode(err, "TOKEN_EXPIRED"), client.IsCode(err, "INVALID_TOKEN"):
		return "run `journal login` first"
	case client.IsCode(err, "USER_EXISTS"):
		return "use `journal login` instead"
	}
	return ""
}

// === Auth ===

// credentials reads -email/-password, prompting for whichever is missing.
func (a *App) credentials(name string, args []string) (string, string, error) {
	fs := a.flags(name)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted without echo when omitted)")
	if err := parse(fs, args); err != nil {
		return "", "", err
	}

	if *email == "" {
		e, err := promptLine(a.in, a.errOut, "Email")
		if err != nil {
			return "", "", fmt.Errorf("reading email: %w", err)
		}
		*email = e
	}
	if *password == "" {
		p, err := promptPassword(a.errOut)
		if err != nil {
			return "", "", err
		}
		*password = p
	}
	return *email, *password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	email, password, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	res, err := a.api.Register(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s\n", res.User.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
	return nil
}

func (a *App) logout(_ context.Context, args []string) error {
	if err := parse(a.flags("logout"), args); err != nil {
		return err
	}
	if err := a.api.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	if err := parse(a.flags("whoami"), args); err != nil {
		return err
	}
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", u.Email, u.ID)
	return nil
}

// === Sessions ===

func (a *App) listSessions(ctx context.Context, past bool) ([]model.TrainingSession, error) {
	if past {
		return a.api.ListPastSessions(ctx)
	}
	return a.api.ListSessions(ctx)
}

func (a *App) sessions(ctx context.Context, args []string) error {
	fs := a.flags("sessions")
	past := fs.Bool("past", false, "only sessions dated up to now")
	if err := parse(fs, args); err != nil {
		return err
	}

	list, err := a.listSessions(ctx, *past)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No sessions yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFEELING\tPERFORMANCE\tRATING\tFEEDBACK")
	for _, s := range list {
		feedback := ""
		if s.Feedback != nil {
			feedback = *s.Feedback
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.Date.UTC().Format(dateLayout), s.Feeling, s.Performance, s.Rating, feedback)
	}
	return tw.Flush()
}

func (a *App) sessionAdd(ctx context.Context, args []string) error {
	fs := a.flags("session-add")
	in := client.SessionInput{}
	fs.StringVar(&in.Date, "date", time.Now().UTC().Format(dateLayout), "session date (YYYY-MM-DD or RFC 3339)")
	fs.IntVar(&in.Feeling, "feeling", 0, "how you felt, 0-10")
	fs.IntVar(&in.Performance, "performance", 0, "how you performed, 0-10")
	fs.IntVar(&in.Rating, "rating", 0, "overall rating, 0-10")
	feedback := fs.String("feedback", "", "optional free text")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(fs, "feeling", "performance", "rating"); err != nil {
		return err
	}
	if *feedback != "" {
		in.Feedback = feedback
	}

	s, err := a.api.CreateSession(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created session %s\n", s.ID)
	return nil
}

func (a *App) sessionRemove(ctx context.Context, args []string) error {
	id, err := a.oneArg("session-rm", args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted session %s\n", id)
	return nil
}

// === Notes ===

func (a *App) notes(ctx context.Context, args []string) error {
	sessionID, err := a.oneArg("notes", args)
	if err != nil {
		return err
	}
	list, err := a.api.ListNotes(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTEXT")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.CreatedAt.UTC().Format(time.RFC3339), n.Text)
	}
	return tw.Flush()
}

func (a *App) noteAdd(ctx context.Context, args []string) error {
	fs := a.flags("note-add")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return ErrUsage
	}
	n, err := a.api.CreateNote(ctx, fs.Arg(0), strings.Join(fs.Args()[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created note %s\n", n.ID)
	return nil
}

// === Chart ===

// showChart prints the per-day averages the web client plots.
func (a *App) showChart(ctx context.Context, args []string) error {
	fs := a.flags("chart")
	past := fs.Bool("past", false, "only sessions dated up to now")
	if err := parse(fs, args); err != nil {
		return err
	}

	list, err := a.listSessions(ctx, *past)
	if err != nil {
		return err
	}
	points := chart.AggregateSessionsByDay(list)
	if len(points) == 0 {
		fmt.Fprintln(a.out, "No sessions yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSESSIONS\tFEELING\tPERFORMANCE\tRATING")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\n", p.Date, p.Count, p.Feeling, p.Performance, p.Rating)
	}
	return tw.Flush()
}

// === Themes ===

func (a *App) themes(ctx context.Context, args []string) error {
	if err := parse(a.flags("themes"), args); err != nil {
		return err
	}
	list, err := a.api.ListThemes(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No themes yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND")
	for _, th := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			th.ID, th.Name, th.StartAt.UTC().Format(dateLayout), th.EndAt.UTC().Format(dateLayout))
	}
	return tw.Flush()
}

func (a *App) themeAdd(ctx context.Context, args []string) error {
	fs := a.flags("theme-add")
	var in client.ThemeInput
	fs.StringVar(&in.Name, "name", "", "theme name")
	fs.StringVar(&in.StartAt, "start", "", "first day (YYYY-MM-DD)")
	fs.StringVar(&in.EndAt, "end", "", "last day (YYYY-MM-DD), after -start")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(fs, "name", "start", "end"); err != nil {
		return err
	}

	th, err := a.api.CreateTheme(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created theme %s\n", th.ID)
	return nil
}

func (a *App) themeRemove(ctx context.Context, args []string) error {
	id, err := a.oneArg("theme-rm", args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteTheme(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted theme %s\n", id)
	return nil
}

// === Tasks ===

func (a *App) tasks(ctx context.Context, args []string) error {
	if err := parse(a.flags("tasks"), args); err != nil {
		return err
	}
	list, err := a.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE")
	for _, t := range list {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, done, t.Title)
	}
	return tw.Flush()
}

func (a *App) taskAdd(ctx context.Context, args []string) error {
	fs := a.flags("task-add")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return ErrUsage
	}
	t, err := a.api.CreateTask(ctx, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %s\n", t.ID)
	return nil
}

func (a *App) taskDone(ctx context.Context, args []string) error {
	return a.setTaskCompleted(ctx, "task-done", args, true)
}

func (a *App) taskUndo(ctx context.Context, args []string) error {
	return a.setTaskCompleted(ctx, "task-undo", args, false)
}

func (a *App) setTaskCompleted(ctx context.Context, name string, args []string, completed bool) error {
	id, err := a.oneArg(name, args)
	if err != nil {
		return err
	}
	t, err := a.api.SetTaskCompleted(ctx, id, completed)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Fprintf(a.out, "Completed %q\n", t.Title)
	} else {
		fmt.Fprintf(a.out, "Reopened %q\n", t.Title)
	}
	return nil
}

func (a *App) taskRemove(ctx context.Context, args []string) error {
	id, err := a.oneArg("task-rm", args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted task %s\n", id)
	return nil
}

// requireFlags fails with usage when any of names was not given.
func requireFlags(fs *flag.FlagSet, names ...string) error {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	var missing []string
	for _, n := range names {
		if !seen[n] {
			missing = append(missing, "-"+n)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(fs.Output(), "missing required flags: %s\n", strings.Join(missing, " "))
		fs.Usage()
		return ErrUsage
	}
	return nil
}
