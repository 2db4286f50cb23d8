// Package errors provides structured, coded errors for the socketio tooling.
//
// Every error carries a code (e.g. "E210") registered with a category, a
// short message, a longer explanation and a documentation link. Build-time
// failures point at the handler file that caused them, so the CLI can print
// the offending source lines.
//
// # Categories
//
//   - discovery: scanning the events directory
//   - generation: producing type declarations and the server entry
//   - runtime: dispatching events to handlers
//   - protocol: malformed packets on the wire
//   - config: socketio.json problems
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E210").
//	    WithDetail(`"chat/send" is produced by events/chat/send.go and a hook`).
//	    WithSuggestion("Give one of the events an explicit As name")
//
//	fmt.Println(err.Format())
package errors
