package internal

import "sync"

// subscribers is the notification registry behind the manager's pub/sub
// surface. Callbacks take no arguments: observers re-pull the snapshot on
// every notification rather than receiving diffs, which keeps the contract
// trivial for transcripts of this size.
type subscribers struct {
	mu        sync.Mutex
	nextToken int
	callbacks map[int]func()
}

func newSubscribers() *subscribers {
	return &subscribers{callbacks: make(map[int]func())}
}

// add registers a callback and returns its unsubscribe function. The
// returned function is idempotent.
func (s *subscribers) add(callback func()) func() {
	if callback == nil {
		return func() {}
	}
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.callbacks[token] = callback
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.callbacks, token)
		s.mu.Unlock()
	}
}

// notify invokes every registered callback once, in no particular order.
func (s *subscribers) notify() {
	s.mu.Lock()
	list := make([]func(), 0, len(s.callbacks))
	for _, callback := range s.callbacks {
		list = append(list, callback)
	}
	s.mu.Unlock()

	for _, callback := range list {
		callback()
	}
}

// count returns the number of registered callbacks.
func (s *subscribers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}
