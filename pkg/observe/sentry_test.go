package observe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"forecaster/pkg/logger"
)

func newTestHook(env string) (*SentryHook, *[]*sentry.Event) {
	var captured []*sentry.Event
	h := &SentryHook{
		appEnv:  env,
		appName: "forecaster",
		enabled: true,
		capture: func(e *sentry.Event) *sentry.EventID {
			captured = append(captured, e)
			return nil
		},
	}
	return h, &captured
}

func TestSentryHook_ForwardsErrors(t *testing.T) {
	hook, captured := newTestHook("prod")
	var out bytes.Buffer
	l := logger.NewZapLogger("forecaster", "prod", &out, hook)

	l.Info("not forwarded")
	l.Error(errors.New("provider unavailable"), map[string]any{"lat": 53.9})

	require.Len(t, *captured, 1)
	event := (*captured)[0]
	assert.Equal(t, "provider unavailable", event.Message)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "prod", event.Environment)
	assert.Equal(t, "provider unavailable", event.Extra["Error"])
	assert.False(t, event.Timestamp.IsZero())
	require.Len(t, event.Exception, 1)
}

func TestSentryHook_IgnoresOtherEnvironments(t *testing.T) {
	hook, captured := newTestHook("test")
	l := logger.NewZapLogger("forecaster", "test", hook)

	l.Error(errors.New("provider unavailable"))

	assert.Empty(t, *captured)
}

func TestSentryHook_DisabledWithoutDSN(t *testing.T) {
	hook := NewSentryHook("prod", "forecaster", 0, false, "")

	n, err := hook.Write([]byte(`{"level":"error","msg":"boom"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"level":"error","msg":"boom"}`), n)
	assert.True(t, hook.Flush())
}

func TestSentryHook_MalformedEntry(t *testing.T) {
	hook, captured := newTestHook("dev")

	n, err := hook.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, len("not json"), n)
	assert.Empty(t, *captured)
}

func TestSentryHook_MapLevel(t *testing.T) {
	hook, _ := newTestHook("dev")

	assert.Equal(t, sentry.LevelFatal, hook.mapLevel(zapcore.PanicLevel))
	assert.Equal(t, sentry.LevelWarning, hook.mapLevel(zapcore.WarnLevel))
}
