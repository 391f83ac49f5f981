package logme

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		SetDebug(false)
		SetLogger(nil)
	})

	DebugF("hidden %d", 1)
	InfoF("converting %s\n", "a.sarif")
	WarnF("failed to interpret %q as level", "fatal")
	Errorln("error:", "boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "converting a.sarif", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, `failed to interpret "fatal" as level`, entries[1].Message)
	require.Equal(t, "error: boom", entries[2].Message)
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	require.True(t, IsDebug())

	SetDebug(false)
	require.False(t, IsDebug())
}

func TestSetDebugKeepsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		SetDebug(false)
		SetLogger(nil)
	})

	Debugln("hidden")
	SetDebug(true)
	InfoF("hello")
	DebugF("shown %d", 1)
	SetDebug(false)
	DebugFln("hidden again")
	InfoF("still here")

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	require.Equal(t, []string{"hello", "shown 1", "still here"}, messages)
}
