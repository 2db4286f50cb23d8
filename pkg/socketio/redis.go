package socketio

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultRedisChannel is the pub/sub channel used by RedisAdapter.
const DefaultRedisChannel = "socketio"

// RedisClient is the subset of *redis.Client used by RedisAdapter.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// redisEnvelope is the message published for each broadcast.
type redisEnvelope struct {
	Node   string `json:"node"`
	Packet Packet `json:"packet"`
}

// RedisAdapter fans broadcasts out to every node subscribed to the same
// Redis channel. Each node delivers its own broadcasts when they come back
// through the subscription, so local and remote sockets see one ordering.
type RedisAdapter struct {
	client  RedisClient
	channel string
	node    string
	logger  *slog.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Packet)

	startOnce sync.Once
	pubsub    *redis.PubSub
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRedisAdapter creates an adapter publishing on channel
// (DefaultRedisChannel when empty).
func NewRedisAdapter(client RedisClient, channel string) *RedisAdapter {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisAdapter{
		client:  client,
		channel: channel,
		node:    uuid.NewString(),
		logger:  slog.Default().With("component", "socketio.redis", "channel", channel),
		subs:    make(map[int]func(Packet)),
		done:    make(chan struct{}),
	}
}

// Node returns the identifier this adapter stamps on its messages.
func (a *RedisAdapter) Node() string {
	return a.node
}

// Broadcast publishes p on the channel.
func (a *RedisAdapter) Broadcast(ctx context.Context, p Packet) error {
	payload, err := json.Marshal(redisEnvelope{Node: a.node, Packet: p})
	if err != nil {
		return err
	}
	return a.client.Publish(ctx, a.channel, payload).Err()
}

// Subscribe registers fn. The first call subscribes to the channel.
func (a *RedisAdapter) Subscribe(fn func(Packet)) func() {
	a.startOnce.Do(a.start)

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *RedisAdapter) start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.pubsub = a.client.Subscribe(ctx, a.channel)

	go func() {
		defer close(a.done)
		ch := a.pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				a.deliver(msg.Payload)
			}
		}
	}()
}

// deliver decodes one published message and hands it to the subscribers.
func (a *RedisAdapter) deliver(payload string) {
	var env redisEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		a.logger.Warn("dropping malformed broadcast", "error", err)
		return
	}

	a.mu.RLock()
	subs := make([]func(Packet), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.RUnlock()

	for _, fn := range subs {
		fn(env.Packet)
	}
}

// Close unsubscribes and waits for the receive loop to exit.
func (a *RedisAdapter) Close() error {
	started := true
	a.startOnce.Do(func() { started = false })
	if !started {
		return nil
	}

	a.cancel()
	err := a.pubsub.Close()
	<-a.done
	return err
}
