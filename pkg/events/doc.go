// Package events discovers socket event handlers on disk.
//
// Every Go file below the events directory is one event. The event name is
// the file's path relative to the directory without the .go extension, using
// '/' as separator:
//
//	events/ping.go          → "ping"      handled by events.Ping
//	events/chat/send.go     → "chat/send" handled by chat.Send
//	events/chat/user_join.go → "chat/user_join" handled by chat.UserJoin
//
// The handler is the exported function named after the file in PascalCase
// (the file's default export). Test files and the reserved type declaration
// file are skipped.
//
// Discovery is extensible: other producers hook into Discovery.Hooks and
// append their own descriptors after the directory scan.
package events
