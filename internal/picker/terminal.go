package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Terminal shows a file browser in the controlling terminal. It is used on
// machines without a desktop session.
type Terminal struct {
	// StartDir is the directory the browser opens in. Defaults to the
	// working directory.
	StartDir string

	// In and Out default to the process's stdin and stderr.
	In  io.Reader
	Out io.Writer
}

// PickFile browses for a file whose extension matches one of the filters.
func (t Terminal) PickFile(ctx context.Context, filters ...Filter) (Selection, error) {
	fp, err := t.newFilePicker()
	if err != nil {
		return Cancelled, err
	}
	fp.FileAllowed = true
	fp.DirAllowed = false
	for _, f := range filters {
		fp.AllowedTypes = append(fp.AllowedTypes, f.Suffixes()...)
	}
	return t.run(ctx, newPickModel(fp, "Open File", false))
}

// PickFolder browses for a directory.
func (t Terminal) PickFolder(ctx context.Context) (Selection, error) {
	fp, err := t.newFilePicker()
	if err != nil {
		return Cancelled, err
	}
	fp.FileAllowed = false
	fp.DirAllowed = true
	return t.run(ctx, newPickModel(fp, "Open Workspace", true))
}

func (t Terminal) newFilePicker() (filepicker.Model, error) {
	start := t.StartDir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return filepicker.Model{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		start = wd
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return filepicker.Model{}, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	fp := filepicker.New()
	fp.CurrentDirectory = abs
	fp.ShowPermissions = false
	return fp, nil
}

func (t Terminal) run(ctx context.Context, m pickModel) (Selection, error) {
	in := t.In
	if in == nil {
		in = os.Stdin
	}
	out := t.Out
	if out == nil {
		out = os.Stderr
	}

	result, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Cancelled, ctx.Err()
		}
		return Cancelled, err
	}
	return result.(pickModel).selection(), nil
}

// --- pickModel: bubbletea model around the bubbles file picker ---

type pickModel struct {
	fp        filepicker.Model
	title     string
	folder    bool
	chosen    string
	cancelled bool
	errMsg    string
}

func newPickModel(fp filepicker.Model, title string, folder bool) pickModel {
	return pickModel{fp: fp, title: title, folder: folder}
}

func (m pickModel) Init() tea.Cmd {
	return m.fp.Init()
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "s":
			if m.folder {
				m.chosen = m.fp.CurrentDirectory
				return m, tea.Quit
			}
		}
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if didSelect, path := m.fp.DidSelectFile(msg); didSelect {
		m.chosen = path
		return m, tea.Quit
	}
	if didSelect, path := m.fp.DidSelectDisabledFile(msg); didSelect {
		m.errMsg = filepath.Base(path) + " cannot be opened here"
	}
	return m, cmd
}

func (m pickModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(hintStyle.Render(m.fp.CurrentDirectory) + "\n\n")
	b.WriteString(m.fp.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.folder {
		b.WriteString(hintStyle.Render("enter: choose folder · s: choose current folder · esc: cancel") + "\n")
	} else {
		b.WriteString(hintStyle.Render("enter: open · esc: cancel") + "\n")
	}
	return b.String()
}

func (m pickModel) selection() Selection {
	if m.cancelled || m.chosen == "" {
		return Cancelled
	}
	return Chose(m.chosen)
}
