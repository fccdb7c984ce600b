package bot

import "fmt"

// Option is one selectable menu entry. The token comes back through
// HandleCallback when the user picks it; the transport decides how the
// label is displayed.
type Option struct {
	Label string
	Token string
}

// Reply is everything the engine says back for one inbound message. The
// engine never renders; transports decide how text and options appear.
type Reply struct {
	Text    string
	Options []Option
}

func reply(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}
