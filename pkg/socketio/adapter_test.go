package socketio

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redis/v8"
)

func TestLocalAdapter(t *testing.T) {
	a := NewLocalAdapter()

	var got []string
	cancel := a.Subscribe(func(p Packet) { got = append(got, p.Event) })

	p, _ := NewPacket("one")
	if err := a.Broadcast(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	cancel()
	p2, _ := NewPacket("two")
	a.Broadcast(context.Background(), p2)

	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("delivered = %v, want [one]", got)
	}

	ctx, stop := context.WithCancel(context.Background())
	stop()
	if err := a.Broadcast(ctx, p); err == nil {
		t.Fatal("expected Broadcast to honor a canceled context")
	}
}

// fakeRedis records published messages.
type fakeRedis struct {
	channel  string
	messages []string
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.messages = append(f.messages, string(message.([]byte)))
	return redis.NewIntResult(1, nil)
}

func (f *fakeRedis) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	panic("not used")
}

func TestRedisAdapterBroadcast(t *testing.T) {
	client := &fakeRedis{}
	a := NewRedisAdapter(client, "")

	p, _ := NewPacket("test", 42)
	if err := a.Broadcast(context.Background(), p); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if client.channel != DefaultRedisChannel {
		t.Errorf("channel = %q, want %q", client.channel, DefaultRedisChannel)
	}
	if len(client.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(client.messages))
	}

	var env redisEnvelope
	if err := json.Unmarshal([]byte(client.messages[0]), &env); err != nil {
		t.Fatal(err)
	}
	if env.Node != a.Node() || env.Packet.Event != "test" || string(env.Packet.Args[0]) != "42" {
		t.Errorf("envelope = %+v", env)
	}

	// Close before any subscription is a no-op.
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRedisAdapterDeliver(t *testing.T) {
	a := NewRedisAdapter(&fakeRedis{}, "room")

	var got []Packet
	a.mu.Lock()
	a.subs[0] = func(p Packet) { got = append(got, p) }
	a.mu.Unlock()

	a.deliver(`{"node":"other","packet":["hello","world"]}`)
	a.deliver(`garbage`)

	if len(got) != 1 || got[0].Event != "hello" || string(got[0].Args[0]) != `"world"` {
		t.Fatalf("delivered = %+v", got)
	}
}
