package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"trace", zerolog.TraceLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewHonoursEnvLevel(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	var buf bytes.Buffer
	logger, err := New("gridkit", &buf, "debug")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Error().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "app=gridkit")
}

func TestOpenFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "gridkit.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.FileExists(t, path)
}
