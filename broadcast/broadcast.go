// broadcast/broadcast.go
package broadcast

import (
	"sync"

	"github.com/wfunc/ghost/game"
)

// Broadcaster delivers every game event to each registered reporter, in
// registration order.
type Broadcaster struct {
	reporters []game.Reporter
	mutex     sync.RWMutex
}

func NewBroadcaster(reporters ...game.Reporter) *Broadcaster {
	b := &Broadcaster{}
	for _, r := range reporters {
		b.Add(r)
	}
	return b
}

// Add registers r. Nil reporters are ignored.
func (b *Broadcaster) Add(r game.Reporter) {
	if r == nil {
		return
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.reporters = append(b.reporters, r)
}

func (b *Broadcaster) Report(event game.Event) {
	b.mutex.RLock()
	reporters := b.reporters
	b.mutex.RUnlock()

	for _, r := range reporters {
		r.Report(event)
	}
}

func (b *Broadcaster) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.reporters)
}
