package integration

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/engine"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/history"
	"github.com/danieljhkim/rpgedit/internal/picker"
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	mu       sync.Mutex
	files    map[string][]byte
	dirs     map[string]bool
	readErrs map[string]error
}

var _ fsops.FS = (*testFS)(nil)

func newTestFS() *testFS {
	return &testFS{
		files:    make(map[string][]byte),
		dirs:     map[string]bool{"/": true},
		readErrs: make(map[string]error),
	}
}

// failRead makes every read of path fail with err.
func (t *testFS) failRead(path string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErrs[path] = err
}

// removeDir deletes a directory and everything below it.
func (t *testFS) removeDir(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := path + string(filepath.Separator)
	delete(t.dirs, path)
	for p := range t.dirs {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			delete(t.dirs, p)
		}
	}
	for p := range t.files {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			delete(t.files, p)
		}
	}
}

func (t *testFS) file(path string) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.files[path]
	return data, ok
}

func (t *testFS) Exists(path string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, hasFile := t.files[path]
	return hasFile || t.dirs[path], nil
}

func (t *testFS) Stat(path string) (os.FileInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	if data, ok := t.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(data)), mode: 0644}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (t *testFS) MkdirAll(path string, perm os.FileMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for p := path; ; p = filepath.Dir(p) {
		t.dirs[p] = true
		if filepath.Dir(p) == p {
			return nil
		}
	}
}

func (t *testFS) ReadFile(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err, ok := t.readErrs[path]; ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: err}
	}
	if content, ok := t.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func (t *testFS) WriteFile(path string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if t.dirs[path] {
		return &fs.PathError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	t.files[path] = append([]byte(nil), data...)
	return nil
}

func (t *testFS) CreateIfAbsent(path string, data []byte) error {
	if ok, _ := t.Exists(path); ok {
		return fmt.Errorf("%s: %w", path, fsops.ErrExists)
	}
	return t.WriteFile(path, data)
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// scriptedPicker answers picker calls from a queue; an empty queue cancels.
type scriptedPicker struct {
	mu      sync.Mutex
	answers []func() picker.Selection
	filters [][]picker.Filter
}

func (p *scriptedPicker) push(answer func() picker.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers = append(p.answers, answer)
}

func (p *scriptedPicker) choose(path string) {
	p.push(func() picker.Selection { return picker.Chose(path) })
}

func (p *scriptedPicker) next() picker.Selection {
	p.mu.Lock()
	if len(p.answers) == 0 {
		p.mu.Unlock()
		return picker.Cancelled
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	p.mu.Unlock()
	return answer()
}

func (p *scriptedPicker) PickFile(ctx context.Context, filters ...picker.Filter) (picker.Selection, error) {
	p.mu.Lock()
	p.filters = append(p.filters, filters)
	p.mu.Unlock()
	return p.next(), ctx.Err()
}

func (p *scriptedPicker) PickFolder(ctx context.Context) (picker.Selection, error) {
	return p.next(), ctx.Err()
}

// eventLog collects every emitted event.
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) add(e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]events.Event(nil), l.events...)
}

// testEnv wires the engine against in-memory collaborators.
type testEnv struct {
	fs       *testFS
	picker   *scriptedPicker
	bus      *events.Bus
	log      *eventLog
	reporter *dialog.Recorder
	history  *history.Store
	engine   *engine.Engine
}

func setupTestEnvironment(t *testing.T, opts ...engine.Option) *testEnv {
	t.Helper()

	env := &testEnv{
		fs:       newTestFS(),
		picker:   &scriptedPicker{},
		bus:      events.NewBus(nil),
		log:      &eventLog{},
		reporter: &dialog.Recorder{},
	}
	if err := env.fs.MkdirAll("/data", 0755); err != nil {
		t.Fatal(err)
	}
	env.history = history.NewStore(env.fs, "/data/recent.json")
	env.bus.SubscribeAll(env.log.add)

	opts = append([]engine.Option{engine.WithHistory(env.history)}, opts...)
	env.engine = engine.New(env.fs, env.picker, env.bus, env.reporter, opts...)
	return env
}

func await(t *testing.T, ch <-chan engine.Result) engine.Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not finish in time")
	}
	return engine.Result{}
}
