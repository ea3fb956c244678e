package server

import (
	"sync"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// broker fans a stream of ProgressEvents out to any number of SSE
// subscribers. Subscribe returns a channel and a cleanup func; the
// cleanup must run once the subscriber's connection closes, or the
// broker leaks that channel forever.
type broker struct {
	mu   sync.Mutex
	subs map[chan models.ProgressEvent]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[chan models.ProgressEvent]struct{})}
}

func (b *broker) subscribe() (ch chan models.ProgressEvent, cancel func()) {
	ch = make(chan models.ProgressEvent, 32)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}
}

// Emit satisfies scheduler.EventSink/pipeline.EventSink: the server
// can sit directly behind a scheduler run, broadcasting every event
// to every currently-subscribed /events client. A slow subscriber
// that fills its buffer drops the event rather than blocking the run.
func (b *broker) Emit(e models.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
