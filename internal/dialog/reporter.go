// Package dialog surfaces failures of the open flows to the user.
//
// A Reporter is the terminal step of a failed flow: it shows the message and
// returns. It never returns an error and never panics out; a broken dialog
// backend is logged and otherwise ignored, because the flow that failed has
// no caller to hand the problem to.
package dialog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/ncruces/zenity"
)

// DefaultTitle is the dialog title used when none is configured.
const DefaultTitle = "rpg-editor"

// Reporter shows a human-readable message.
type Reporter interface {
	Report(msg string)
}

// Func adapts a function to Reporter.
type Func func(msg string)

// Report calls f.
func (f Func) Report(msg string) { f(msg) }

// Multi reports to each reporter in turn.
type Multi []Reporter

// Report forwards msg to every reporter.
func (m Multi) Report(msg string) {
	for _, r := range m {
		r.Report(msg)
	}
}

// Recorder keeps reported messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Report records msg.
func (r *Recorder) Report(msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
}

// Messages returns a copy of everything reported so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Native shows a modal error dialog through the operating system.
type Native struct {
	Title  string
	Logger *slog.Logger
}

// Report shows msg in a native error dialog.
func (n Native) Report(msg string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	title := n.Title
	if title == "" {
		title = DefaultTitle
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("error dialog panicked", slog.Any("panic", r), slog.String("message", msg))
		}
	}()
	if err := zenity.Error(msg, zenity.Title(title)); err != nil {
		logger.Error("failed to show error dialog",
			slog.String("error", err.Error()),
			slog.String("message", msg),
		)
	}
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("1")).
	Padding(0, 1)

var boxTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

// terminalMu serializes Terminal reports so boxes from concurrent flows
// never interleave.
var terminalMu sync.Mutex

// Terminal draws the message in a box on a writer, stderr by default.
type Terminal struct {
	Title string
	Out   io.Writer
}

// Report writes msg to the terminal.
func (t Terminal) Report(msg string) {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}
	title := t.Title
	if title == "" {
		title = DefaultTitle
	}
	box := boxStyle.Render(boxTitleStyle.Render(title) + "\n" + msg)

	terminalMu.Lock()
	defer terminalMu.Unlock()
	_, _ = fmt.Fprintln(out, box)
}
