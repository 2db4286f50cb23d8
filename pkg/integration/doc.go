// Package integration sets the socket event pipeline up against a kit.Kit.
//
// Setup registers the events directory scan as the first descriptor
// producer, adds the generated TypeScript declarations and client bootstrap
// as templates, contributes the server wiring to the generated entry and
// regenerates everything, debounced, when handler files are added or
// removed.
//
//	k := kit.New(kit.Options{Root: root, Sinks: []kit.Sink{kit.NewDirSink(out)}})
//	m, err := integration.Setup(k, integration.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	return k.Templates.Update(ctx)
package integration
