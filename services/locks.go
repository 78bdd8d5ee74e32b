package services

import "sync"

// OrderLocks serializes work on a single order inside this process. Entries
// are reference counted and dropped once no goroutine holds or waits on them.
type OrderLocks struct {
	mu    sync.Mutex
	locks map[uint]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func NewOrderLocks() *OrderLocks {
	return &OrderLocks{locks: make(map[uint]*orderLock)}
}

// Lock blocks until orderID is free and returns the matching unlock.
// Take it before opening the transaction that touches the order.
func (l *OrderLocks) Lock(orderID uint) func() {
	l.mu.Lock()
	ol, ok := l.locks[orderID]
	if !ok {
		ol = &orderLock{}
		l.locks[orderID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.mu.Lock()

	return func() {
		ol.mu.Unlock()

		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, orderID)
		}
		l.mu.Unlock()
	}
}

func (l *OrderLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
