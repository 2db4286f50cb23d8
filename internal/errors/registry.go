package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category    Category
	Message     string
	Explanation string
	DocURL      string
}

const docBase = "https://vango.dev/docs/socketio/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Discovery Errors (E200-E209)
	// ============================================

	"E200": {
		Category:    CategoryDiscovery,
		Message:     "Events directory scan failed",
		Explanation: "A file below the events directory could not be read. A missing events directory is not an error.",
		DocURL:      docBase + "E200",
	},
	"E201": {
		Category:    CategoryDiscovery,
		Message:     "Event hook failed",
		Explanation: "A hook registered to contribute event descriptors returned an error.",
		DocURL:      docBase + "E201",
	},

	// ============================================
	// Generation Errors (E210-E229)
	// ============================================

	"E210": {
		Category:    CategoryGeneration,
		Message:     "Duplicate event name",
		Explanation: "Two event descriptors resolve to the same effective name. Only one handler can receive an event.",
		DocURL:      docBase + "E210",
	},
	"E211": {
		Category:    CategoryGeneration,
		Message:     "Invalid generated identifier",
		Explanation: "The event name cannot be turned into a Go identifier, or two names produce the same identifier.",
		DocURL:      docBase + "E211",
	},
	"E212": {
		Category:    CategoryGeneration,
		Message:     "Handler export not found",
		Explanation: "The handler file does not declare the exported function the event refers to.",
		DocURL:      docBase + "E212",
	},
	"E213": {
		Category:    CategoryGeneration,
		Message:     "Handler outside module",
		Explanation: "The handler file is not inside the Go module, so it cannot be imported by the generated entry.",
		DocURL:      docBase + "E213",
	},
	"E214": {
		Category:    CategoryGeneration,
		Message:     "Template generation failed",
		Explanation: "A registered template could not produce its contents.",
		DocURL:      docBase + "E214",
	},
	"E215": {
		Category:    CategoryGeneration,
		Message:     "Output write failed",
		Explanation: "A generated file could not be written to the output location.",
		DocURL:      docBase + "E215",
	},

	// ============================================
	// Runtime Errors (E300-E319)
	// ============================================

	"E300": {
		Category:    CategoryRuntime,
		Message:     "Event context not available",
		Explanation: "The socket event context is only available while a handler is being dispatched.",
		DocURL:      docBase + "E300",
	},
	"E301": {
		Category:    CategoryRuntime,
		Message:     "Invalid event handler",
		Explanation: "Event handlers must be functions, optionally taking a context.Context first and optionally returning an error.",
		DocURL:      docBase + "E301",
	},
	"E302": {
		Category:    CategoryRuntime,
		Message:     "Handler panicked",
		Explanation: "An event handler panicked. The connection stays open.",
		DocURL:      docBase + "E302",
	},
	"E303": {
		Category:    CategoryRuntime,
		Message:     "Unknown event",
		Explanation: "No handler is registered under this event name. The event was dropped.",
		DocURL:      docBase + "E303",
	},

	// ============================================
	// Protocol Errors (E320-E329)
	// ============================================

	"E320": {
		Category:    CategoryProtocol,
		Message:     "Invalid packet",
		Explanation: "Packets must be JSON arrays whose first element is the event name.",
		DocURL:      docBase + "E320",
	},
	"E321": {
		Category:    CategoryProtocol,
		Message:     "Invalid event argument",
		Explanation: "An event argument could not be decoded into the handler's parameter type.",
		DocURL:      docBase + "E321",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category:    CategoryConfig,
		Message:     "Invalid socketio.json",
		Explanation: "The socketio.json configuration file is malformed.",
		DocURL:      docBase + "E120",
	},
	"E121": {
		Category:    CategoryConfig,
		Message:     "Missing required configuration",
		Explanation: "A required configuration value is not set.",
		DocURL:      docBase + "E121",
	},
	"E122": {
		Category:    CategoryConfig,
		Message:     "Invalid debounce interval",
		Explanation: "The watch debounce must be a positive Go duration such as \"500ms\".",
		DocURL:      docBase + "E122",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category:    CategoryCLI,
		Message:     "Not a Go module",
		Explanation: "No go.mod was found in the current directory or any parent directory.",
		DocURL:      docBase + "E141",
	},
	"E142": {
		Category:    CategoryCLI,
		Message:     "Module path not found",
		Explanation: "go.mod does not contain a module declaration.",
		DocURL:      docBase + "E142",
	},
	"E143": {
		Category:    CategoryCLI,
		Message:     "Unknown template",
		Explanation: "The requested scaffolding template does not exist.",
		DocURL:      docBase + "E143",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
