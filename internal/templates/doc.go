// Package templates provides project scaffolding for socketio init.
//
// # Available Templates
//
//   - minimal: socketio.json, a ping handler and the server events file
//   - chat: a chat room with join and send handlers plus a runnable server
//
// # Usage
//
//	tmpl, err := templates.Get("chat")
//	if err != nil {
//	    return err
//	}
//	written, err := tmpl.Create(projectDir, cfg)
//
// # Template Variables
//
// File paths and contents are text/template sources:
//
//	{{.ModulePath}}     - Go module path of the project
//	{{.EventsDir}}      - events directory, relative to the project root
//	{{.TypesFile}}      - server events declaration file
//	{{.OutputDir}}      - generated package directory
//	{{.OutputPackage}}  - generated package name
//	{{.RuntimeModule}}  - import path of this module
package templates
