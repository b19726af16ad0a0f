package classify

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/routefold/pkg/ast"
)

// Result is the outcome of classifying one module.
type Result struct {
	// Module is the rewritten module. Statements that were not rewritten
	// are shared with the input module.
	Module *ast.Module

	PageServer []*ast.VarDeclarator
	Server     []*ast.VarDeclarator
	Client     []*ast.VarDeclarator

	Warnings []Warning
}

// Bucket returns the declarators routed to b, in source order.
func (r *Result) Bucket(b Bucket) []*ast.VarDeclarator {
	switch b {
	case PageServer:
		return r.PageServer
	case Server:
		return r.Server
	case Client:
		return r.Client
	}
	return nil
}

// Counts returns the number of declarators in each bucket.
func (r *Result) Counts() map[Bucket]int {
	return map[Bucket]int{
		PageServer: len(r.PageServer),
		Server:     len(r.Server),
		Client:     len(r.Client),
	}
}

// Classify rewrites every exported variable declaration of mod and routes
// each declared identifier into a bucket. The input module is not
// modified. A *MalformedExportError aborts the pass and no module is
// returned.
func Classify(mod *ast.Module) (*Result, error) {
	if mod == nil {
		return nil, errors.New("classify: nil module")
	}

	res := &Result{
		Module: &ast.Module{
			Body:     make([]ast.Stmt, 0, len(mod.Body)),
			Trailing: mod.Trailing,
		},
	}

	for _, stmt := range mod.Body {
		exp, ok := stmt.(*ast.ExportDecl)
		if !ok {
			res.Module.Body = append(res.Module.Body, stmt)
			continue
		}
		rewritten, err := res.rewriteExport(exp)
		if err != nil {
			return nil, err
		}
		res.Module.Body = append(res.Module.Body, rewritten)
	}
	return res, nil
}

func (r *Result) rewriteExport(exp *ast.ExportDecl) (*ast.ExportDecl, error) {
	v, ok := exp.Decl.(*ast.VarDecl)
	if !ok {
		return nil, &MalformedExportError{Pos: exp.Pos(), Reason: describeNonVar(exp.Decl)}
	}

	decl := &ast.VarDecl{
		NodeInfo: v.NodeInfo,
		Kind:     v.Kind,
		Declare:  v.Declare,
		Decls:    make([]*ast.VarDeclarator, 0, len(v.Decls)),
	}
	for _, d := range v.Decls {
		nd, err := r.rewriteDeclarator(d)
		if err != nil {
			return nil, err
		}
		decl.Decls = append(decl.Decls, nd)
	}

	return &ast.ExportDecl{
		NodeInfo: exp.NodeInfo,
		Leading:  exp.Leading,
		Decl:     decl,
	}, nil
}

func (r *Result) rewriteDeclarator(d *ast.VarDeclarator) (*ast.VarDeclarator, error) {
	switch name := d.Name.(type) {
	case nil:
		return nil, &MalformedExportError{Pos: d.Pos(), Reason: "declarator has no binding"}
	case *ast.Ident:
		bucket, newName := BucketFor(name.Name)
		nd := &ast.VarDeclarator{
			NodeInfo: d.NodeInfo,
			Name:     &ast.Ident{Name: newName},
			TypeAnn:  d.TypeAnn,
			Definite: d.Definite,
		}
		if d.Init != nil {
			nd.Init = &ast.NumberLit{Value: float64(d.Init.End().Offset)}
		}
		r.add(bucket, nd)
		return nd, nil
	default:
		r.Warnings = append(r.Warnings, Warning{
			Kind: UnsupportedBindingPattern,
			Pos:  name.Pos(),
			Text: patternText(name),
		})
		return d, nil
	}
}

func (r *Result) add(b Bucket, d *ast.VarDeclarator) {
	switch b {
	case PageServer:
		r.PageServer = append(r.PageServer, d)
	case Server:
		r.Server = append(r.Server, d)
	case Client:
		r.Client = append(r.Client, d)
	}
}

func describeNonVar(d ast.Decl) string {
	switch d := d.(type) {
	case nil:
		return "export has no declaration"
	case *ast.OtherDecl:
		if d.Name != "" {
			return fmt.Sprintf("export of %s %q is not a variable declaration", d.Keyword, d.Name)
		}
		return fmt.Sprintf("export of %s is not a variable declaration", d.Keyword)
	default:
		return fmt.Sprintf("export of %T is not a variable declaration", d)
	}
}

func patternText(p ast.Pattern) string {
	if rp, ok := p.(*ast.RawPattern); ok {
		return rp.Text
	}
	return fmt.Sprintf("%T", p)
}
