// Package socketio is the runtime half of file-based socket event handlers.
//
// A Server is mounted on a chi.Router and speaks a minimal protocol over
// WebSocket text frames: every message is a JSON array whose first element
// is the event name and whose remaining elements are the positional
// arguments.
//
//	["chat/send", "general", {"text": "hi"}]
//
// Inbound events are looked up by exact name in the map handed to
// CreateSocketServer. Unknown events are logged and dropped. Handler errors
// and panics are logged once and never reach the peer; the connection keeps
// serving.
//
// While a handler runs, its context carries the EventCtx of the dispatch:
//
//	func Send(ctx context.Context, room string, msg Message) error {
//	    io := socketio.Use(ctx)
//	    return io.Server.Emit(ctx, "message", room, msg)
//	}
//
// Server-to-client broadcasts go through an Adapter. LocalAdapter delivers
// within the process; RedisAdapter fans out across nodes with Redis pub/sub.
package socketio
