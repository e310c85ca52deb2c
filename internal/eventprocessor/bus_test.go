// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/gateway"
)

type broadcast struct {
	roomID, event string
	payload       any
}

// recordingBroadcaster stands in for the local transports.
type recordingBroadcaster struct {
	mu  sync.Mutex
	got []broadcast
	ch  chan broadcast
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{ch: make(chan broadcast, 64)}
}

func (r *recordingBroadcaster) BroadcastToRoom(roomID, event string, payload any) {
	b := broadcast{roomID, event, payload}
	r.mu.Lock()
	r.got = append(r.got, b)
	r.mu.Unlock()
	r.ch <- b
}

func (r *recordingBroadcaster) next(t *testing.T) broadcast {
	t.Helper()
	select {
	case b := <-r.ch:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return broadcast{}
	}
}

func (r *recordingBroadcaster) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case b := <-r.ch:
		t.Fatalf("unexpected broadcast %+v", b)
	case <-time.After(100 * time.Millisecond):
	}
}

func testConfig(instance string) Config {
	cfg := DefaultConfig()
	cfg.InstanceID = instance
	cfg.Breaker.Name = "event-publisher-" + instance
	return cfg
}

// persistentPubSub replays earlier messages to late subscribers, which
// removes the race between Serve subscribing and the first publish.
func persistentPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{Persistent: true, OutputChannelBuffer: 64}, watermill.NopLogger{})
}

func serveBus(t *testing.T, b *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestBus_FansOutAcrossInstances(t *testing.T) {
	ps := persistentPubSub()
	t.Cleanup(func() { _ = ps.Close() })

	localA, localB := newRecordingBroadcaster(), newRecordingBroadcaster()
	busA, err := NewBus(ps, ps, localA, testConfig("node-a"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus(a) error = %v", err)
	}
	busB, err := NewBus(ps, ps, localB, testConfig("node-b"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus(b) error = %v", err)
	}
	serveBus(t, busA)
	serveBus(t, busB)

	busA.BroadcastToRoom("K3X9QZ2A", gateway.EventItemConsensus, gateway.ItemConsensus{RoomID: "K3X9QZ2A", ItemID: "tt0111161"})

	// Delivered locally at once with the original payload.
	local := localA.next(t)
	if _, ok := local.payload.(gateway.ItemConsensus); !ok {
		t.Errorf("local payload type = %T, want gateway.ItemConsensus", local.payload)
	}

	// Delivered remotely with the encoded payload.
	remote := localB.next(t)
	if remote.roomID != "K3X9QZ2A" || remote.event != gateway.EventItemConsensus {
		t.Errorf("remote broadcast = %+v", remote)
	}
	data, err := json.Marshal(remote.payload)
	if err != nil {
		t.Fatalf("Marshal(remote payload) error = %v", err)
	}
	if got, want := string(data), `{"room_id":"K3X9QZ2A","item_id":"tt0111161"}`; got != want {
		t.Errorf("remote payload = %s, want %s", got, want)
	}

	// The origin skips its own event.
	localA.expectNothing(t)
	localB.expectNothing(t)
}

func TestBus_DropsUndecodableMessages(t *testing.T) {
	ps := persistentPubSub()
	t.Cleanup(func() { _ = ps.Close() })

	local := newRecordingBroadcaster()
	bus, err := NewBus(ps, ps, local, testConfig("node-a"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	if err := ps.Publish(bus.config.Topic, message.NewMessage(watermill.NewUUID(), []byte("garbage"))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	good, _ := NewRoomEvent("node-z", "ROOM0001", gateway.EventMemberLeft, gateway.MemberEvent{RoomID: "ROOM0001", User: "bob"})
	data, _ := SerializeEvent(good)
	if err := ps.Publish(bus.config.Topic, message.NewMessage(good.EventID, data)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	serveBus(t, bus)

	got := local.next(t)
	if got.roomID != "ROOM0001" || got.event != gateway.EventMemberLeft {
		t.Errorf("broadcast = %+v, want the valid event after the bad one", got)
	}
}

func TestBus_ServeStopsOnCancel(t *testing.T) {
	ps := persistentPubSub()
	t.Cleanup(func() { _ = ps.Close() })

	bus, err := NewBus(ps, ps, newRecordingBroadcaster(), testConfig("node-a"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bus.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

// failingPublisher always fails.
type failingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fmt.Errorf("nats: no servers available for connection")
}

func (f *failingPublisher) Close() error { return nil }

func TestBus_PublishFailuresOpenBreaker(t *testing.T) {
	ps := persistentPubSub()
	t.Cleanup(func() { _ = ps.Close() })

	pub := &failingPublisher{}
	local := newRecordingBroadcaster()
	cfg := testConfig("node-a")
	bus, err := NewBus(pub, ps, local, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	attempts := int(cfg.Breaker.FailureThreshold) + 3
	for i := 0; i < attempts; i++ {
		bus.BroadcastToRoom("K3X9QZ2A", gateway.EventRoomStarted, gateway.RoomStarted{RoomID: "K3X9QZ2A"})
		local.next(t)
	}

	if got := bus.BreakerState(); got != "open" {
		t.Errorf("BreakerState() = %q, want open", got)
	}
	pub.mu.Lock()
	calls := pub.calls
	pub.mu.Unlock()
	if calls != int(cfg.Breaker.FailureThreshold) {
		t.Errorf("publisher calls = %d, want %d (rest rejected by the breaker)", calls, cfg.Breaker.FailureThreshold)
	}
}

func TestNewBus_Validation(t *testing.T) {
	ps := persistentPubSub()
	t.Cleanup(func() { _ = ps.Close() })

	if _, err := NewBus(ps, ps, nil, testConfig("a"), zerolog.Nop()); err == nil {
		t.Error("NewBus(nil local) error = nil")
	}
	if _, err := NewBus(nil, ps, newRecordingBroadcaster(), testConfig("a"), zerolog.Nop()); err == nil {
		t.Error("NewBus(nil publisher) error = nil")
	}
	bad := testConfig("a")
	bad.Topic = ""
	if _, err := NewBus(ps, ps, newRecordingBroadcaster(), bad, zerolog.Nop()); err == nil {
		t.Error("NewBus(empty topic) error = nil")
	}
}

func TestNewPubSub_UnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "kafka"
	if _, _, err := NewPubSub(&cfg, nil); err == nil {
		t.Error("NewPubSub(kafka) error = nil")
	}
}
