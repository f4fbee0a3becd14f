package journal

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindJSON(t *testing.T) {
	t.Run("plain severities are bare strings", func(t *testing.T) {
		for kind, want := range map[Kind]string{
			Information: `"Information"`,
			Warning:     `"Warning"`,
			Error:       `"Error"`,
		} {
			data, err := json.Marshal(kind)
			require.NoError(t, err)
			assert.Equal(t, want, string(data))
		}
	})

	t.Run("state is a single-key object", func(t *testing.T) {
		data, err := json.Marshal(StateKind(`{"hp":10}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"State":"{\"hp\":10}"}`, string(data))
	})

	t.Run("panic carries the full record", func(t *testing.T) {
		kind := PanicKind(PanicRecord{
			Line:      42,
			File:      "app.go",
			Message:   "boom",
			Backtrace: "trace",
		})
		data, err := json.Marshal(kind)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Panic":{"line":42,"file":"app.go","message":"boom","backtrace":"trace"}}`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		kinds := []Kind{
			Information,
			Warning,
			Error,
			StateKind("snapshot"),
			PanicKind(PanicRecord{Line: 1, File: "f", Message: "m", Backtrace: "b"}),
		}
		for _, kind := range kinds {
			data, err := json.Marshal(kind)
			require.NoError(t, err)
			var back Kind
			require.NoError(t, json.Unmarshal(data, &back))

			assert.Equal(t, kind.String(), back.String())
			if snap, ok := kind.State(); ok {
				got, _ := back.State()
				assert.Equal(t, snap, got)
			}
			if rec, ok := kind.Panic(); ok {
				got, ok := back.Panic()
				require.True(t, ok)
				assert.Equal(t, *rec, *got)
			}
		}
	})

	t.Run("unknown tags are rejected", func(t *testing.T) {
		var kind Kind
		assert.Error(t, json.Unmarshal([]byte(`"Fatal"`), &kind))
		assert.Error(t, json.Unmarshal([]byte(`{"Critical":"x"}`), &kind))
	})
}

func TestKindAccessors(t *testing.T) {
	assert.True(t, PanicKind(PanicRecord{}).IsPanic())
	assert.False(t, Information.IsPanic())

	_, ok := Information.State()
	assert.False(t, ok)
	_, ok = Warning.Panic()
	assert.False(t, ok)
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts := Now()
	after := time.Now().Add(time.Second)

	got := ts.Time()
	assert.True(t, got.After(before) && got.Before(after), "timestamp %v outside [%v, %v]", got, before, after)
	assert.Less(t, ts.Nanos, uint32(1_000_000_000))
}

func TestMessageJSONLayout(t *testing.T) {
	msg := Message{
		Time:  Timestamp{Secs: 100, Nanos: 5},
		Level: Information,
		Topic: "gfx",
		Text:  "swapchain created",
	}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"time": {"secs": 100, "nanos": 5},
		"level": "Information",
		"topic": "gfx",
		"message": "swapchain created"
	}`, string(data))

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, msg, back)
}
