package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/HimanshuSingh-966/PayLog/internal/bot"
)

type scriptedHandler struct {
	texts     []string
	callbacks []string
}

func (h *scriptedHandler) HandleText(_ context.Context, _ string, text string) bot.Reply {
	h.texts = append(h.texts, text)
	return bot.Reply{
		Text:    "echo: " + text,
		Options: []bot.Option{{Label: "Summary", Token: "menu_summary"}},
	}
}

func (h *scriptedHandler) HandleCallback(_ context.Context, _ string, token string) bot.Reply {
	h.callbacks = append(h.callbacks, token)
	return bot.Reply{Text: "picked: " + token}
}

func TestRunRoutesTextAndCallbacks(t *testing.T) {
	color.NoColor = true
	h := &scriptedHandler{}
	var out bytes.Buffer
	c := New(h, "console", strings.NewReader("spent 500 on groceries\n/menu_summary\nexit\n"), &out)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The /start greeting plus one text line.
	if len(h.texts) != 2 || h.texts[1] != "spent 500 on groceries" {
		t.Fatalf("texts = %v", h.texts)
	}
	if len(h.callbacks) != 1 || h.callbacks[0] != "menu_summary" {
		t.Fatalf("callbacks = %v", h.callbacks)
	}
	if !strings.Contains(out.String(), "echo: spent 500 on groceries") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "/menu_summary  Summary") {
		t.Fatalf("options not rendered: %q", out.String())
	}
}

func TestRunStopsOnEOF(t *testing.T) {
	color.NoColor = true
	c := New(&scriptedHandler{}, "console", strings.NewReader(""), &bytes.Buffer{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run on EOF: %v", err)
	}
}
