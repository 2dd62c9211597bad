package roulette_test

import (
	"context"
	"errors"
	"sync"

	"datingroulette/backend/internal/roulette"
)

var errDeliveryFailed = errors.New("delivery failed")

// fakeUsers is an in-memory attribute source.
type fakeUsers struct {
	mu    sync.Mutex
	attrs map[string]roulette.Attributes
	calls int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{attrs: make(map[string]roulette.Attributes)}
}

func (f *fakeUsers) set(userID string, gender, wanted roulette.Gender, interests ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs[userID] = roulette.Attributes{Gender: gender, WantedGender: wanted, Interests: interests}
}

func (f *fakeUsers) Fetch(_ context.Context, userID string) (roulette.Attributes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	a, ok := f.attrs[userID]
	if !ok {
		return roulette.Attributes{}, roulette.ErrUserNotFound
	}
	return a, nil
}

// gatedUsers blocks every lookup until release is closed.
type gatedUsers struct {
	*fakeUsers
	entered chan string
	release chan struct{}
}

func newGatedUsers() *gatedUsers {
	return &gatedUsers{
		fakeUsers: newFakeUsers(),
		entered:   make(chan string, 8),
		release:   make(chan struct{}),
	}
}

func (g *gatedUsers) Fetch(ctx context.Context, userID string) (roulette.Attributes, error) {
	g.entered <- userID
	<-g.release
	return g.fakeUsers.Fetch(ctx, userID)
}

// fakeNotifier records every delivered event per connection.
type fakeNotifier struct {
	mu     sync.Mutex
	events map[string][]roulette.Event
	broken map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		events: make(map[string][]roulette.Event),
		broken: make(map[string]bool),
	}
}

func (f *fakeNotifier) Send(connectionID string, ev roulette.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken[connectionID] {
		return errDeliveryFailed
	}
	f.events[connectionID] = append(f.events[connectionID], ev)
	return nil
}

func (f *fakeNotifier) breakConnection(connectionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken[connectionID] = true
}

func (f *fakeNotifier) of(connectionID string) []roulette.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]roulette.Event(nil), f.events[connectionID]...)
}

func (f *fakeNotifier) count(connectionID string, t roulette.EventType) int {
	n := 0
	for _, ev := range f.of(connectionID) {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// fakeRecorder keeps session transitions in the order they were recorded.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []string
	done    chan struct{}
	want    int
}

func newFakeRecorder(want int) *fakeRecorder {
	return &fakeRecorder{done: make(chan struct{}), want: want}
}

func (f *fakeRecorder) add(entry string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	if len(f.entries) == f.want {
		close(f.done)
	}
}

func (f *fakeRecorder) RecordStarted(_ context.Context, s roulette.Session) error {
	f.add("started:" + s.ID)
	return nil
}

func (f *fakeRecorder) RecordEnded(_ context.Context, s roulette.Session) error {
	f.add("ended:" + s.ID + ":" + string(s.EndedReason))
	return nil
}

func (f *fakeRecorder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.entries...)
}
