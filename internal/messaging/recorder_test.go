package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"datingroulette/backend/internal/messaging"
	"datingroulette/backend/internal/roulette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func TestSessionPublisher_Subjects(t *testing.T) {
	pub := &fakePublisher{}
	rec := messaging.NewSessionPublisher(pub)
	s := roulette.Session{
		ID:        "ca-cb-1",
		A:         roulette.Participant{ConnectionID: "ca", UserID: "ua"},
		B:         roulette.Participant{ConnectionID: "cb", UserID: "ub"},
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, rec.RecordStarted(context.Background(), s))
	ended := s.StartedAt.Add(time.Minute)
	s.EndedAt, s.EndedReason = &ended, roulette.ReasonLeft
	require.NoError(t, rec.RecordEnded(context.Background(), s))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, messaging.SubjectSessionStarted, pub.msgs[0].subject)
	assert.Equal(t, messaging.SubjectSessionEnded, pub.msgs[1].subject)

	var got roulette.Session
	require.NoError(t, json.Unmarshal(pub.msgs[1].data, &got))
	assert.Equal(t, "ca-cb-1", got.ID)
	assert.Equal(t, roulette.ReasonLeft, got.EndedReason)
}

func TestSessionPublisher_PublishError(t *testing.T) {
	boom := errors.New("nats: connection closed")
	rec := messaging.NewSessionPublisher(&fakePublisher{err: boom})

	err := rec.RecordStarted(context.Background(), roulette.Session{ID: "s1"})

	assert.ErrorIs(t, err, boom)
}
