package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/queue"
)

func TestQueueDispatcherPublishesJSON(t *testing.T) {
	q := queue.NewInMemory(4)
	d := NewQueueDispatcher(q)

	d.Send(context.Background(), []string{"tok-1"}, "Library Update 📚", "hello",
		map[string]string{"screen": "Library"})
	d.Send(context.Background(), nil, "dropped", "no tokens", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	msg := <-msgs
	require.Equal(t, MessageType, msg.Type)

	var p Push
	require.NoError(t, json.Unmarshal(msg.Body, &p))
	require.Equal(t, []string{"tok-1"}, p.Tokens)
	require.Equal(t, "Library Update 📚", p.Title)
	require.Equal(t, "Library", p.Data["screen"])

	// The empty-token send was dropped before the queue.
	select {
	case extra := <-msgs:
		t.Fatalf("unexpected message: %q", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestIsExpoToken(t *testing.T) {
	require.True(t, IsExpoToken("ExponentPushToken[abc123]"))
	require.False(t, IsExpoToken("abc123"))
	require.False(t, IsExpoToken("ExponentPushToken[abc123"))
	require.False(t, IsExpoToken(""))
}

func TestDeliverFiltersAndChunks(t *testing.T) {
	var chunks [][]expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/--/api/v2/push/send", r.URL.Path)
		var chunk []expoMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&chunk))
		chunks = append(chunks, chunk)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL)

	tokens := []string{"not-a-token"}
	for i := 0; i < 150; i++ {
		tokens = append(tokens, fmt.Sprintf("ExponentPushToken[%03d]", i))
	}

	sent := c.Deliver(context.Background(), Push{Tokens: tokens, Title: "t", Body: "b"})
	require.Equal(t, 150, sent)
	require.Len(t, chunks, 2)
	require.Len(t, chunks[0], 100)
	require.Len(t, chunks[1], 50)
	require.Equal(t, "#6366f1", chunks[0][0].Color)
	require.Equal(t, "custom-alert", chunks[0][0].ChannelID)
	require.Equal(t, "notification.wav", chunks[0][0].Sound)
}

func TestDeliverNothingValid(t *testing.T) {
	c := NewExpoClient("http://127.0.0.1:1") // never dialed
	sent := c.Deliver(context.Background(), Push{Tokens: []string{"junk"}})
	require.Zero(t, sent)
}
