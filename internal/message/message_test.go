package message

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueue_EnqueueEmailLogsJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	q := NewQueue(zap.New(core).Sugar())

	err := q.EnqueueEmail(context.Background(), Email{
		To:      []string{"owner@example.com"},
		Subject: "Portfolio contact - Ana",
		Text:    "Hello",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("queue email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Portfolio contact - Ana", entries[0].ContextMap()["subject"])
}

func TestQueue_RejectsMissingRecipients(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar())
	assert.Error(t, q.EnqueueEmail(context.Background(), Email{Subject: "x"}))
}

func TestQueue_HonoursCancelledContext(t *testing.T) {
	q := NewQueue(zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.EnqueueEmail(ctx, Email{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBox_PushDrain(t *testing.T) {
	b := NewBox()
	b.Push("s1", Toast{LevelSuccess, "one"})
	b.Push("s1", Toast{LevelInfo, "two"})
	b.Push("s2", Toast{LevelInfo, "other"})

	assert.Equal(t, []Toast{{LevelSuccess, "one"}, {LevelInfo, "two"}}, b.Drain("s1"))
	assert.Empty(t, b.Drain("s1"))

	b.Forget("s2")
	assert.Empty(t, b.Drain("s2"))
}

func TestBox_BoundsPending(t *testing.T) {
	b := NewBox()
	for i := 0; i < maxPending+3; i++ {
		b.Push("s1", Toast{LevelInfo, string(rune('a' + i))})
	}

	got := b.Drain("s1")
	require.Len(t, got, maxPending)
	assert.Equal(t, "d", got[0].Text)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render([]Toast{{LevelSuccess, "Thanks <Ana>"}}, true).Render(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t,
		`<div id="toasts" hx-swap-oob="beforeend">`+
			`<div class="toast toast-success" data-auto-dismiss="3000">Thanks &lt;Ana&gt;</div></div>`,
		buf.String())
}

func TestRender_EmptyOOBWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(nil, true).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())

	require.NoError(t, Render(nil, false).Render(context.Background(), &buf))
	assert.Equal(t, `<div id="toasts" class="toast-container" aria-live="polite"></div>`, buf.String())
}
