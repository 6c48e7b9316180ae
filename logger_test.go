package displaylist

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"honnef.co/go/displaylist/jmath"
)

func TestMalformedListsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	it := FromData([]byte{0xff, 0xff, 0xff, 0xff}, Descriptor{}).Iter()
	require.False(t, it.Next())
	require.Error(t, it.Err())
	require.Contains(t, buf.String(), "malformed display list")
}

func TestBuilderLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := NewBuilderWithOptions(testPipeline, jmath.Sz(1, 1), BuilderOptions{Logger: log})
	b.Save()
	b.Restore()
	b.Finalize()

	out := buf.String()
	require.Contains(t, out, "saving display list")
	require.Contains(t, out, "restoring display list")
	require.Contains(t, out, "finalized display list")
	require.Contains(t, out, "pipeline=")
}

func TestNopLogger(t *testing.T) {
	SetLogger(nil)
	require.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
