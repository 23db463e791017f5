package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/queue"
)

// MessageType marks push jobs on the shared queue.
const MessageType = "push"

// Push is the queued notification job, serialized as JSON between the api
// process and the worker.
type Push struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Dispatcher fans a notification out to device tokens. Implementations are
// best-effort: Send never reports failure to the caller, because delivery must
// not affect the ledger mutation that triggered it.
type Dispatcher interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

// QueueDispatcher hands pushes to the worker via the queue. The api process
// never talks to the push gateway directly.
type QueueDispatcher struct {
	q queue.Queue
}

func NewQueueDispatcher(q queue.Queue) *QueueDispatcher {
	return &QueueDispatcher{q: q}
}

func (d *QueueDispatcher) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) {
	if len(tokens) == 0 {
		return
	}
	payload, err := json.Marshal(Push{Tokens: tokens, Title: title, Body: body, Data: data})
	if err != nil {
		log.Printf("notify: marshal push failed: %v", err)
		return
	}
	if err := d.q.Publish(ctx, queue.Message{Type: MessageType, Body: payload}); err != nil {
		log.Printf("notify: enqueue push failed: %v", err)
	}
}

// Noop drops every notification; used in tests and when no queue is wired.
type Noop struct{}

func (Noop) Send(context.Context, []string, string, string, map[string]string) {}
