package docindex

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"golang.org/x/text/unicode/norm"

	"logdoc/internal/docmap"
)

const directivePrefix = "//logdoc:"

// ParseSource parses one Go file and returns its function spans in document
// order. filename is used for positions and error messages only.
func ParseSource(filename string, src []byte) ([]docmap.Span, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return collectSpans(fset, file), nil
}

func collectSpans(fset *token.FileSet, file *ast.File) []docmap.Span {
	cmap := ast.NewCommentMap(fset, file, file.Comments)

	var (
		spans []docmap.Span
		stack []ast.Node
	)
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		switch fn := n.(type) {
		case *ast.FuncDecl:
			spans = append(spans, newSpan(fset, fn, funcDeclName(fn), fn.Doc))
		case *ast.FuncLit:
			doc := literalDoc(cmap, stack)
			spans = append(spans, newSpan(fset, fn, literalName(stack, fn), doc))
		}
		stack = append(stack, n)
		return true
	})
	return spans
}

func newSpan(fset *token.FileSet, n ast.Node, name string, doc *ast.CommentGroup) docmap.Span {
	span := docmap.Span{
		Start: fset.Position(n.Pos()).Line,
		End:   fset.Position(n.End()).Line,
		Name:  name,
	}
	if doc == nil {
		return span
	}
	span.FirstParagraph = firstParagraph(doc.Text())
	span.Override = directives(doc)
	return span
}

// firstParagraph returns the text before the first blank line with its lines
// joined by single spaces.
func firstParagraph(text string) string {
	para, _, _ := strings.Cut(text, "\n\n")
	return norm.NFC.String(strings.Join(strings.Fields(para), " "))
}

// directives scans logdoc directives. nolog suppresses regardless of order.
func directives(doc *ast.CommentGroup) *string {
	var (
		override   *string
		suppressed bool
	)
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		name, arg := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			name, arg = rest[:i], rest[i+1:]
		}
		switch name {
		case "nolog":
			suppressed = true
		case "desc":
			if !suppressed {
				override = docmap.OverrideText(norm.NFC.String(strings.TrimSpace(arg)))
			}
		}
	}
	if suppressed {
		return docmap.Suppress()
	}
	return override
}

func funcDeclName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	if recv := receiverType(fn.Recv.List[0].Type); recv != "" {
		return recv + "." + fn.Name.Name
	}
	return fn.Name.Name
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.ParenExpr:
		return receiverType(t.X)
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	default:
		return ""
	}
}

// literalDoc finds the leading comment of the statement, spec, or
// declaration holding a function literal. The search stops at the enclosing
// block so a literal never inherits its parent function's documentation.
func literalDoc(cmap ast.CommentMap, ancestors []ast.Node) *ast.CommentGroup {
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch anc := ancestors[i].(type) {
		case *ast.File, *ast.FuncDecl, *ast.FuncLit, *ast.BlockStmt, *ast.CaseClause, *ast.CommClause:
			return nil
		case *ast.GenDecl:
			if anc.Doc != nil {
				return anc.Doc
			}
		case *ast.ValueSpec:
			if anc.Doc != nil {
				return anc.Doc
			}
		case ast.Stmt, *ast.Field:
			if doc := leadingGroup(cmap[anc], anc); doc != nil {
				return doc
			}
		}
	}
	return nil
}

func leadingGroup(groups []*ast.CommentGroup, n ast.Node) *ast.CommentGroup {
	var lead *ast.CommentGroup
	for _, g := range groups {
		if g.End() < n.Pos() {
			lead = g
		}
	}
	return lead
}

func literalName(ancestors []ast.Node, lit *ast.FuncLit) string {
	if len(ancestors) == 0 {
		return ""
	}
	switch parent := ancestors[len(ancestors)-1].(type) {
	case *ast.AssignStmt:
		if len(parent.Lhs) != len(parent.Rhs) {
			return ""
		}
		for i, rhs := range parent.Rhs {
			if rhs == lit {
				if id, ok := parent.Lhs[i].(*ast.Ident); ok && id.Name != "_" {
					return id.Name
				}
				if sel, ok := parent.Lhs[i].(*ast.SelectorExpr); ok {
					return sel.Sel.Name
				}
			}
		}
	case *ast.ValueSpec:
		for i, v := range parent.Values {
			if v == lit && i < len(parent.Names) && parent.Names[i].Name != "_" {
				return parent.Names[i].Name
			}
		}
	case *ast.KeyValueExpr:
		if parent.Value == lit {
			if id, ok := parent.Key.(*ast.Ident); ok {
				return id.Name
			}
		}
	}
	return ""
}
