package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/picker"
)

func newCommandEngine() (*Engine, *dialog.Recorder) {
	rec := &dialog.Recorder{}
	return New(fsops.NewRealFS(), picker.Func{}, events.NewBus(nil), rec), rec
}

func TestRead(t *testing.T) {
	eng, rec := newCommandEngine()
	dir := t.TempDir()
	file := filepath.Join(dir, "m.json")
	if err := os.WriteFile(file, []byte(`{"maps":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("existing file", func(t *testing.T) {
		got := eng.Read(file)
		if !got.OK || got.Content != `{"maps":[]}` {
			t.Errorf("Read() = %+v", got)
		}
	})

	t.Run("nonexistent path returns the OS error text", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.json")
		_, osErr := os.ReadFile(missing)

		got := eng.Read(missing)
		if got.OK {
			t.Fatal("Read() should fail")
		}
		if got.Content != osErr.Error() {
			t.Errorf("Content = %q, want %q", got.Content, osErr.Error())
		}
	})

	t.Run("contents that are not UTF-8 fail instead of being altered", func(t *testing.T) {
		bin := filepath.Join(dir, "bin.json")
		if err := os.WriteFile(bin, []byte("{\"maps\":[\"\xff\"]}"), 0644); err != nil {
			t.Fatal(err)
		}

		got := eng.Read(bin)
		if got.OK {
			t.Fatalf("Read() = %+v, want failure", got)
		}
		if !strings.Contains(got.Content, "valid UTF-8") {
			t.Errorf("Content = %q", got.Content)
		}
	})

	if n := len(rec.Messages()); n != 0 {
		t.Errorf("commands must not open dialogs, got %d", n)
	}
}

func TestWrite(t *testing.T) {
	eng, rec := newCommandEngine()
	dir := t.TempDir()
	file := filepath.Join(dir, "m.json")

	if !eng.Write(file, "one") || !eng.Write(file, "two") {
		t.Fatal("Write() returned false")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("contents = %q", data)
	}

	if eng.Write(filepath.Join(dir, "no", "such", "dir.json"), "x") {
		t.Error("Write() into a missing directory should fail")
	}
	if n := len(rec.Messages()); n != 0 {
		t.Errorf("commands must not open dialogs, got %d", n)
	}
}

func TestCreateIfAbsent(t *testing.T) {
	eng, _ := newCommandEngine()
	dir := t.TempDir()
	file := filepath.Join(dir, "project.json")

	if !eng.CreateIfAbsent(file, `{"maps":[]}`) {
		t.Fatal("first CreateIfAbsent() should succeed")
	}
	if eng.CreateIfAbsent(file, `{"maps":[{"id":9}]}`) {
		t.Error("second CreateIfAbsent() should fail")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != `{"maps":[]}` {
		t.Errorf("existing file was modified: %q", data)
	}
}

func TestInitWorkspace(t *testing.T) {
	eng, _ := newCommandEngine()
	dir := t.TempDir()

	manifest, err := eng.InitWorkspace(dir)
	if err != nil {
		t.Fatalf("InitWorkspace() error = %v", err)
	}
	if manifest != filepath.Join(dir, "project.json") {
		t.Errorf("manifest = %s", manifest)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"maps":[]}` {
		t.Errorf("manifest contents = %q", data)
	}

	if _, err := eng.InitWorkspace(dir); !errors.Is(err, fsops.ErrExists) {
		t.Errorf("second InitWorkspace() error = %v, want ErrExists", err)
	}
	if _, err := eng.InitWorkspace(filepath.Join(dir, "missing")); !errors.Is(err, ErrPathInvalid) {
		t.Errorf("InitWorkspace(missing) error = %v, want ErrPathInvalid", err)
	}
}
