package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/internal/config"
	"github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/socketio"
)

func emitCmd() *cobra.Command {
	var (
		addr    string
		channel string
	)

	cmd := &cobra.Command{
		Use:   "emit <event> [arg...]",
		Short: "Broadcast a server event to every connected client",
		Long: `Publish a server-to-client event on the Redis channel shared by socket
servers that use the Redis adapter. Every node delivers it to its
connected sockets.

Each argument is sent as JSON when it parses as JSON and as a string
otherwise.

Examples:
  socketio emit test 42
  socketio emit notice '{"text":"deploy at 5pm"}' --redis localhost:6379`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(args[0], args[1:], addr, channel)
		},
	}

	cmd.Flags().StringVar(&addr, "redis", "", "Redis address (default server.redis.addr from socketio.json)")
	cmd.Flags().StringVar(&channel, "channel", "", "Pub/sub channel (default server.redis.channel)")

	return cmd
}

func runEmit(event string, args []string, addr, channel string) error {
	if addr == "" || channel == "" {
		cfg, err := config.LoadFromWorkingDir()
		if err != nil && addr == "" {
			return err
		}
		if cfg != nil {
			if addr == "" {
				addr = cfg.Server.Redis.Addr
			}
			if channel == "" {
				channel = cfg.Server.Redis.Channel
			}
		}
	}
	if addr == "" {
		return errors.New("E121").
			WithDetail("no Redis address").
			WithSuggestion("Pass --redis or set server.redis.addr in socketio.json")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	adapter := socketio.NewRedisAdapter(client, channel)
	defer adapter.Close()

	if err := adapter.Broadcast(ctx, socketio.Packet{Event: event, Args: jsonArgs(args)}); err != nil {
		return err
	}
	success("Emitted %q to %s", event, addr)
	return nil
}

// jsonArgs keeps arguments that are valid JSON and quotes the rest.
func jsonArgs(args []string) []json.RawMessage {
	out := make([]json.RawMessage, len(args))
	for i, arg := range args {
		if json.Valid([]byte(arg)) {
			out[i] = json.RawMessage(arg)
			continue
		}
		quoted, _ := json.Marshal(arg)
		out[i] = quoted
	}
	return out
}
