package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/feedhub/internal/client/client"
	"github.com/dmitrijs2005/feedhub/internal/client/config"
	"github.com/dmitrijs2005/feedhub/internal/client/models"
	"github.com/dmitrijs2005/feedhub/internal/common"
)

// getSimpleText and getPassword are indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var ErrUnknownCommand = errors.New("unknown command")

const usage = "usage: client [-a url] [-u username] [-i seconds] inbox|unread|purge"

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Command returns the first positional argument in args, skipping flags and
// the values of flags listed in config.ValueFlags.
func Command(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return a
		}
		name := strings.TrimPrefix(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if slices.Contains(config.ValueFlags, "-"+strings.TrimPrefix(name, "-")) {
			i++
		}
	}
	return ""
}

// Run logs in and executes cmd.
func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "inbox", "unread", "purge":
	default:
		return fmt.Errorf("%w %q; %s", ErrUnknownCommand, cmd, usage)
	}

	if err := a.login(ctx); err != nil {
		return err
	}

	switch cmd {
	case "inbox":
		return a.inbox(ctx)
	case "unread":
		n, err := a.api.Unread(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d unread notification(s)\n", n)
	case "purge":
		n, err := a.api.Purge(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %d notification(s)\n", n)
	}
	return nil
}

func (a *App) login(ctx context.Context) error {
	userName := a.config.Username
	if userName == "" {
		var err error
		userName, err = getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("login failed: invalid username or password")
		}
		return err
	}
	return nil
}

func (a *App) inbox(ctx context.Context) error {
	entries, err := a.api.Inbox(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tWHEN\tFROM\tTYPE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker(e), e.CreatedAt.Local().Format("2006-01-02 15:04"), actorName(e.From), e.Type)
	}
	return tw.Flush()
}

func marker(n models.Notification) string {
	if n.New {
		return "*"
	}
	return ""
}

func actorName(a models.Actor) string {
	if a.UserName == "" {
		return "(deleted user)"
	}
	return a.UserName
}
