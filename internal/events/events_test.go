package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

func startEmbeddedNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.Timeout(2*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("connect to embedded NATS: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return nc
}

func sampleContact() *domain.Contact {
	op := "op-1"
	return &domain.Contact{
		ID:         "c-1",
		LeadID:     "l-1",
		SourceID:   "s-1",
		OperatorID: &op,
		Status:     domain.ContactStatusNew,
	}
}

func TestInMemoryDispatcher_DeliversDespiteHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventContactCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventContactCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventContactReassigned, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	ev := NewContactEvent(EventContactCreated, sampleContact(), "selected", time.Now())
	require.NoError(t, d.Publish(context.Background(), ev))
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestNATSPublisher_Publish(t *testing.T) {
	nc := startEmbeddedNATS(t)

	sub, err := nc.SubscribeSync("leadrouter.contacts.>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	pub := NewNATSPublisher(nc, "leadrouter.contacts")
	ev := NewContactEvent(EventContactReassigned, sampleContact(), "selected Alice", time.Now().UTC())
	require.NoError(t, pub.Publish(context.Background(), ev))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	require.Equal(t, "leadrouter.contacts.contact_reassigned", msg.Subject)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	require.Equal(t, ev.ID, got.ID)
	require.Equal(t, "c-1", got.ContactID)
	require.Equal(t, "op-1", *got.Payload.OperatorID)
	require.Equal(t, "selected Alice", got.Payload.Rationale)
}
