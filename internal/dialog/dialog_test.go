package dialog

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCatalog_English(t *testing.T) {
	c, err := NewCatalog("en")
	require.NoError(t, err)
	assert.Equal(t, language.English, c.Language())

	ioErr := errors.New("permission denied")
	tests := []struct {
		kind Kind
		args []any
		want string
	}{
		{KindFolderMissing, []any{"/ws", ioErr}, "Directory /ws does not exist: permission denied"},
		{KindFileMissing, []any{"/m.json", ioErr}, "File /m.json does not exist: permission denied"},
		{KindReadFailed, []any{"/ws/project.json", ioErr}, "Failed to read /ws/project.json: permission denied"},
		{KindWorkspaceEmitFailed, []any{"/ws", ioErr}, "Failed to load workspace '/ws': permission denied"},
		{KindFileEmitFailed, []any{"/m.json", ioErr}, "Failed to load file '/m.json': permission denied"},
		{KindSignalEmitFailed, []any{"Save", ioErr}, "Failed to send 'Save' to the editor: permission denied"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, c.Format(tt.kind, tt.args...))
		})
	}
}

func TestCatalog_Japanese(t *testing.T) {
	c, err := NewCatalog("ja-JP")
	require.NoError(t, err)
	assert.Equal(t, language.Japanese, c.Language())

	assert.Equal(t, "/wsにディレクトリが存在しません：gone",
		c.Format(KindFolderMissing, "/ws", errors.New("gone")))
	assert.Equal(t, "ワークスペース'/ws'のロードに失敗：closed",
		c.Format(KindWorkspaceEmitFailed, "/ws", errors.New("closed")))
}

func TestCatalog_EveryKindTranslated(t *testing.T) {
	for tag, msgs := range templates {
		assert.Len(t, msgs, len(templates[language.English]), "language %s", tag)
	}
}

func TestCatalog_Fallbacks(t *testing.T) {
	c, err := NewCatalog("")
	require.NoError(t, err)
	assert.Equal(t, language.English, c.Language())

	c, err = NewCatalog("fr")
	require.NoError(t, err)
	assert.Equal(t, language.English, c.Language())

	_, err = NewCatalog("not a locale!")
	assert.Error(t, err)
}

func TestRecorderAndMulti(t *testing.T) {
	rec := &Recorder{}
	var seen []string
	m := Multi{rec, Func(func(msg string) { seen = append(seen, msg) })}

	m.Report("one")
	m.Report("two")

	assert.Equal(t, []string{"one", "two"}, rec.Messages())
	assert.Equal(t, []string{"one", "two"}, seen)

	got := rec.Messages()
	got[0] = "mutated"
	assert.Equal(t, "one", rec.Messages()[0])
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	Terminal{Out: &buf}.Report("Directory /ws does not exist.")

	out := buf.String()
	assert.Contains(t, out, DefaultTitle)
	assert.Contains(t, out, "Directory /ws does not exist.")
}

// overlapWriter records whether two writes were ever in progress at once.
type overlapWriter struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	mu       sync.Mutex
	buf      bytes.Buffer
}

func (w *overlapWriter) Write(p []byte) (int, error) {
	if w.inFlight.Add(1) > 1 {
		w.overlap.Store(true)
	}
	defer w.inFlight.Add(-1)
	time.Sleep(time.Millisecond)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestTerminal_ConcurrentReportsDoNotInterleave(t *testing.T) {
	w := &overlapWriter{}
	const n = 16

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Terminal{Out: w}.Report(fmt.Sprintf("failure %02d", i))
		}(i)
	}
	wg.Wait()

	assert.False(t, w.overlap.Load(), "reports were written concurrently")
	out := w.buf.String()
	assert.Equal(t, n, strings.Count(out, DefaultTitle))
	for i := 0; i < n; i++ {
		assert.Contains(t, out, fmt.Sprintf("failure %02d", i))
	}
}
