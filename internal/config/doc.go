// Package config provides configuration parsing for socketio projects.
//
// The configuration is stored in socketio.json next to the project's go.mod.
// The file is optional: a project without it uses the defaults below.
//
// # Configuration File Structure
//
//	{
//	  "eventsDir": "events",
//	  "typesFile": "$types.ts",
//	  "strictEvents": true,
//	  "output": {
//	    "dir": "socketgen",
//	    "s3": { "bucket": "my-bucket", "prefix": "types/", "region": "eu-west-1" }
//	  },
//	  "watch": { "debounce": "500ms", "interval": "100ms" },
//	  "server": { "path": "/socket.io/", "redis": { "addr": "localhost:6379" } }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Events:", cfg.EventsPath())
package config
