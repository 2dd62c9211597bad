package roulette

import (
	"container/list"

	"github.com/samber/lo"
)

// Pool holds connections waiting for a partner, in the order they joined.
// It is not safe for concurrent use; the Coordinator serialises access.
type Pool struct {
	order  *list.List // of *WaitingEntry
	byConn map[string]*list.Element
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		order:  list.New(),
		byConn: make(map[string]*list.Element),
	}
}

// Add appends entry to the back of the pool.
func (p *Pool) Add(entry WaitingEntry) error {
	if _, ok := p.byConn[entry.ConnectionID]; ok {
		return ErrDuplicateConnection
	}
	e := entry
	p.byConn[entry.ConnectionID] = p.order.PushBack(&e)
	return nil
}

// Requeue inserts entry at the position its JoinedAt earns it, behind every
// entry that joined at the same time or earlier.
func (p *Pool) Requeue(entry WaitingEntry) error {
	if _, ok := p.byConn[entry.ConnectionID]; ok {
		return ErrDuplicateConnection
	}
	e := entry
	for el := p.order.Back(); el != nil; el = el.Prev() {
		if !el.Value.(*WaitingEntry).JoinedAt.After(e.JoinedAt) {
			p.byConn[e.ConnectionID] = p.order.InsertAfter(&e, el)
			return nil
		}
	}
	p.byConn[e.ConnectionID] = p.order.PushFront(&e)
	return nil
}

// Remove drops the entry of connectionID. Removing an absent id is a no-op.
func (p *Pool) Remove(connectionID string) (WaitingEntry, bool) {
	el, ok := p.byConn[connectionID]
	if !ok {
		return WaitingEntry{}, false
	}
	delete(p.byConn, connectionID)
	return *p.order.Remove(el).(*WaitingEntry), true
}

// RemoveUser drops every entry owned by userID and returns them.
func (p *Pool) RemoveUser(userID string) []WaitingEntry {
	var removed []WaitingEntry
	for el := p.order.Front(); el != nil; {
		next := el.Next()
		if w := el.Value.(*WaitingEntry); w.UserID == userID {
			delete(p.byConn, w.ConnectionID)
			p.order.Remove(el)
			removed = append(removed, *w)
		}
		el = next
	}
	return removed
}

// Get returns the entry of connectionID.
func (p *Pool) Get(connectionID string) (WaitingEntry, bool) {
	el, ok := p.byConn[connectionID]
	if !ok {
		return WaitingEntry{}, false
	}
	return *el.Value.(*WaitingEntry), true
}

// FindCompatible returns the earliest-joined entry compatible with entry.
// The entry itself and other connections of the same user are skipped.
func (p *Pool) FindCompatible(entry WaitingEntry) (WaitingEntry, bool) {
	for el := p.order.Front(); el != nil; el = el.Next() {
		w := el.Value.(*WaitingEntry)
		if w.ConnectionID == entry.ConnectionID || w.UserID == entry.UserID {
			continue
		}
		if Compatible(entry, *w) {
			return *w, true
		}
	}
	return WaitingEntry{}, false
}

// Len returns the number of waiting entries.
func (p *Pool) Len() int { return p.order.Len() }

// Entries returns a copy of the pool in insertion order.
func (p *Pool) Entries() []WaitingEntry {
	out := make([]*WaitingEntry, 0, p.order.Len())
	for el := p.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*WaitingEntry))
	}
	return lo.Map(out, func(w *WaitingEntry, _ int) WaitingEntry { return *w })
}
