package codegen

import (
	"go/ast"
	"strings"
)

// TSType maps a Go type expression to the TypeScript type of its JSON
// encoding. imports maps local package names to import paths.
func TSType(expr ast.Expr, imports map[string]string) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return identType(t.Name)

	case *ast.StarExpr:
		return TSType(t.X, imports) + " | null"

	case *ast.ArrayType:
		if id, ok := t.Elt.(*ast.Ident); ok && (id.Name == "byte" || id.Name == "uint8") && t.Len == nil {
			// encoding/json base64-encodes []byte.
			return "string"
		}
		return arrayOf(TSType(t.Elt, imports))

	case *ast.MapType:
		return "Record<string, " + TSType(t.Value, imports) + ">"

	case *ast.InterfaceType:
		return "unknown"

	case *ast.StructType:
		return structType(t, imports)

	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return "unknown"
		}
		switch imports[pkg.Name] + "." + t.Sel.Name {
		case "time.Time":
			return "string"
		case "time.Duration":
			return "number"
		case "encoding/json.Number":
			return "number"
		default:
			return "unknown"
		}

	case *ast.ParenExpr:
		return TSType(t.X, imports)

	default:
		return "unknown"
	}
}

func identType(name string) string {
	switch name {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "byte", "rune":
		return "number"
	case "any":
		return "unknown"
	default:
		// Named types declared in the handler package are opaque to the client.
		return "unknown"
	}
}

func structType(t *ast.StructType, imports map[string]string) string {
	if t.Fields == nil || len(t.Fields.List) == 0 {
		return "{}"
	}

	var fields []string
	for _, f := range t.Fields.List {
		for _, n := range f.Names {
			if !n.IsExported() {
				continue
			}
			key, optional, skip := jsonKey(n.Name, f.Tag)
			if skip {
				continue
			}
			sep := ": "
			if optional {
				sep = "?: "
			}
			fields = append(fields, key+sep+TSType(f.Type, imports))
		}
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

// jsonKey applies a `json:"..."` struct tag.
func jsonKey(name string, tag *ast.BasicLit) (key string, optional, skip bool) {
	key = name
	if tag == nil {
		return key, false, false
	}
	raw := strings.Trim(tag.Value, "`")
	idx := strings.Index(raw, `json:"`)
	if idx < 0 {
		return key, false, false
	}
	rest := raw[idx+len(`json:"`):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return key, false, false
	}
	parts := strings.Split(rest[:end], ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		key = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			optional = true
		}
	}
	return key, optional, false
}

func arrayOf(elem string) string {
	if strings.ContainsAny(elem, " |") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}
