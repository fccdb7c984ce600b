// Package console is the local chat transport: a line-oriented REPL that
// feeds text to the conversation engine and renders its replies. Menu
// options are picked by typing /token.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/HimanshuSingh-966/PayLog/internal/bot"
)

// Handler is the slice of the engine the console drives.
type Handler interface {
	HandleText(ctx context.Context, userID, text string) bot.Reply
	HandleCallback(ctx context.Context, userID, token string) bot.Reply
}

type Console struct {
	handler Handler
	userID  string
	in      io.Reader
	out     io.Writer

	prompt *color.Color
	body   *color.Color
	option *color.Color
}

func New(handler Handler, userID string, in io.Reader, out io.Writer) *Console {
	return &Console{
		handler: handler,
		userID:  userID,
		in:      in,
		out:     out,
		prompt:  color.New(color.FgGreen, color.Bold),
		body:    color.New(color.FgCyan),
		option:  color.New(color.FgYellow),
	}
}

// Run reads lines until EOF, "exit"/"quit", or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.render(c.handler.HandleText(ctx, c.userID, "/start"))

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.prompt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case strings.HasPrefix(line, "/") && line != "/start" && line != "/menu":
			c.render(c.handler.HandleCallback(ctx, c.userID, strings.TrimPrefix(line, "/")))
		default:
			c.render(c.handler.HandleText(ctx, c.userID, line))
		}
	}
}

func (c *Console) render(r bot.Reply) {
	c.body.Fprintln(c.out, r.Text)
	for _, opt := range r.Options {
		c.option.Fprintf(c.out, "  /%s", opt.Token)
		fmt.Fprintf(c.out, "  %s\n", opt.Label)
	}
}
