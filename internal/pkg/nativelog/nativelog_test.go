package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestResolveDirPrefersEnv(t *testing.T) {
	t.Setenv(EnvLogDir, "/tmp/fg-env")
	assert.Equal(t, "/tmp/fg-env", ResolveDir("/tmp/configured"))

	t.Setenv(EnvLogDir, "")
	assert.Equal(t, "/tmp/configured", ResolveDir("/tmp/configured"))
}

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	_, err = w.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "stdout_3-7-26.log"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}
