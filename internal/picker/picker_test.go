package picker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPatterns(t *testing.T) {
	f := Filter{Name: "Docs", Extensions: []string{"json", ".yaml"}}
	assert.Equal(t, []string{"*.json", "*.yaml"}, f.Patterns())
	assert.Equal(t, []string{".json", ".yaml"}, f.Suffixes())
	assert.Equal(t, []string{"*.json"}, JSONFilter.Patterns())
}

func TestFixed(t *testing.T) {
	p := Fixed{Selection: Chose("/ws")}

	sel, err := p.PickFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Selection{Path: "/ws", Picked: true}, sel)

	sel, err = p.PickFile(context.Background(), JSONFilter)
	require.NoError(t, err)
	assert.True(t, sel.Picked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sel, err = p.PickFolder(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sel.Picked)
}

func TestFunc(t *testing.T) {
	var gotFilters []Filter
	p := Func{File: func(_ context.Context, filters []Filter) (Selection, error) {
		gotFilters = filters
		return Chose("/m.json"), nil
	}}

	sel, err := p.PickFile(context.Background(), JSONFilter)
	require.NoError(t, err)
	assert.Equal(t, "/m.json", sel.Path)
	assert.Equal(t, []Filter{JSONFilter}, gotFilters)

	sel, err = p.PickFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancelled, sel)
}

// drive feeds msgs to the model, running commands that read directories so the
// file list is populated the way a live program would.
func drive(t *testing.T, m pickModel, msgs ...tea.Msg) pickModel {
	t.Helper()
	msg := m.Init()()
	next, _ := m.Update(msg)
	m = next.(pickModel)
	for _, msg := range msgs {
		next, _ = m.Update(msg)
		m = next.(pickModel)
	}
	return m
}

func newTestFilePicker(t *testing.T, dir string) pickModel {
	t.Helper()
	fp, err := Terminal{StartDir: dir}.newFilePicker()
	require.NoError(t, err)
	return pickModel{fp: fp}
}

func TestPickModel_Cancel(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		t.Run(k.String(), func(t *testing.T) {
			m := newTestFilePicker(t, t.TempDir())
			m.folder = true
			m.fp.DirAllowed = true
			m = drive(t, m, k)

			assert.True(t, m.cancelled)
			assert.Equal(t, Cancelled, m.selection())
			assert.Empty(t, m.View())
		})
	}
}

func TestPickModel_SelectJSONFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.json"), []byte("{}"), 0644))

	m := newTestFilePicker(t, dir)
	m.fp.AllowedTypes = JSONFilter.Suffixes()
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.selection()
	assert.True(t, sel.Picked)
	assert.Equal(t, filepath.Join(dir, "m.json"), sel.Path)
}

func TestPickModel_FilteredFileIsRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	m := newTestFilePicker(t, dir)
	m.fp.AllowedTypes = JSONFilter.Suffixes()
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.selection().Picked)
	assert.Contains(t, m.errMsg, "notes.txt")
}

func TestPickModel_SelectFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ws"), 0755))

	m := newTestFilePicker(t, dir)
	m.folder = true
	m.fp.FileAllowed = false
	m.fp.DirAllowed = true
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, Chose(filepath.Join(dir, "ws")), m.selection())
}

func TestPickModel_SelectCurrentFolder(t *testing.T) {
	dir := t.TempDir()

	m := newTestFilePicker(t, dir)
	m.folder = true
	m.fp.FileAllowed = false
	m.fp.DirAllowed = true
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, Chose(abs), m.selection())
}
