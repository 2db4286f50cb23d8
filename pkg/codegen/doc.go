// Package codegen turns event descriptors into generated source.
//
// Two generators consume the same descriptor sequence, in order and without
// sorting:
//
//   - GenerateTypes emits a TypeScript declaration with the client→server
//     Events map (one field per handler, typed from the handler's Go
//     signature) and the server→client ServerEvents map.
//   - Bootstrap appends import specs and statements to a kit.Source so the
//     generated entry builds the name→handler map and starts the socket
//     server with it.
//
// Generated identifiers are IdentPrefix followed by the effective event name
// with '/' replaced by "__". The generators never reject duplicate names;
// call Validate first to get a readable error instead of a compiler one.
package codegen
