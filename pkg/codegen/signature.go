package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/vango-dev/socketio/internal/errors"
)

// Param is one handler parameter as seen by the client.
type Param struct {
	Name     string
	TSType   string
	Variadic bool
}

// FuncSig is the client-visible signature of a handler function.
type FuncSig struct {
	Params []Param

	// TakesContext reports whether the first Go parameter is a context.Context.
	TakesContext bool

	// ReturnsError reports whether the function returns an error.
	ReturnsError bool
}

// TS renders the signature as a TypeScript function type.
func (s *FuncSig) TS() string {
	if s == nil {
		return catchAllSignature
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		if p.Variadic {
			parts[i] = "..." + p.Name + ": " + arrayOf(p.TSType)
		} else {
			parts[i] = p.Name + ": " + p.TSType
		}
	}
	return "(" + strings.Join(parts, ", ") + ") => void"
}

// Signature parses file and returns the signature of the top-level function
// named export. Methods are ignored.
func Signature(file, export string) (*FuncSig, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.New("E212").WithLocation(file, 0, 0).Wrap(err)
	}

	imports := importNames(f)

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != export {
			continue
		}
		return funcSig(fn.Type, imports), nil
	}

	return nil, errors.New("E212").
		WithLocation(file, 0, 0).
		WithDetail("func " + export + " not declared in " + file).
		WithSuggestion("Declare `func " + export + "(ctx context.Context, ...)` in the handler file")
}

func funcSig(ft *ast.FuncType, imports map[string]string) *FuncSig {
	sig := &FuncSig{}

	var fields []*ast.Field
	if ft.Params != nil {
		fields = ft.Params.List
	}

	argIndex := 0
	for i, field := range fields {
		if i == 0 && isContext(field.Type, imports) && len(field.Names) <= 1 {
			sig.TakesContext = true
			continue
		}

		typ := field.Type
		variadic := false
		if ell, ok := typ.(*ast.Ellipsis); ok {
			typ = ell.Elt
			variadic = true
		}
		tsType := TSType(typ, imports)

		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}
		for _, n := range names {
			name := "arg" + strconv.Itoa(argIndex)
			if n != nil && n.Name != "_" {
				name = n.Name
			}
			sig.Params = append(sig.Params, Param{Name: name, TSType: tsType, Variadic: variadic})
			argIndex++
		}
	}

	if ft.Results != nil {
		for _, r := range ft.Results.List {
			if id, ok := r.Type.(*ast.Ident); ok && id.Name == "error" {
				sig.ReturnsError = true
			}
		}
	}

	return sig
}

// importNames maps local package names to import paths.
func importNames(f *ast.File) map[string]string {
	m := make(map[string]string)
	for _, imp := range f.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		name := path[strings.LastIndex(path, "/")+1:]
		if imp.Name != nil {
			name = imp.Name.Name
		}
		m[name] = path
	}
	return m
}

func isContext(expr ast.Expr, imports map[string]string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && imports[pkg.Name] == "context"
}
