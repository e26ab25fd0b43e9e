package render

import (
	"reflect"
	"strconv"
	"text/template"
	"text/template/parse"
)

const (
	resolveFunc = "resolvePath"
	emptyFunc   = "emptyIfUnknown"
)

// resolvePath walks path through nested string-keyed maps starting at root.
// A missing key, a nil value or a non-map value along the way yields nil.
func resolvePath(root interface{}, path ...string) interface{} {
	v := reflect.ValueOf(root)
	for _, key := range path {
		for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		if !v.IsValid() || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		v = v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	}
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// emptyIfUnknown turns a missing value into "" so actions never print
// "<no value>".
func emptyIfUnknown(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}

// tolerateMissing rewrites every tree of tmpl: field chains such as
// .payload.pull_request.title become resolvePath calls, and printing actions
// pipe their value through emptyIfUnknown. Must run before Execute.
func tolerateMissing(tmpl *template.Template) {
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			rewriteList(t.Tree.Root)
		}
	}
}

func rewriteList(list *parse.ListNode) {
	if list == nil {
		return
	}
	for _, node := range list.Nodes {
		switch n := node.(type) {
		case *parse.ActionNode:
			rewritePipe(n.Pipe)
			if n.Pipe != nil && len(n.Pipe.Decl) == 0 {
				n.Pipe.Cmds = append(n.Pipe.Cmds, &parse.CommandNode{
					NodeType: parse.NodeCommand,
					Pos:      n.Pos,
					Args:     []parse.Node{parse.NewIdentifier(emptyFunc).SetPos(n.Pos)},
				})
			}
		case *parse.IfNode:
			rewriteBranch(&n.BranchNode)
		case *parse.RangeNode:
			rewriteBranch(&n.BranchNode)
		case *parse.WithNode:
			rewriteBranch(&n.BranchNode)
		case *parse.TemplateNode:
			rewritePipe(n.Pipe)
		case *parse.ListNode:
			rewriteList(n)
		}
	}
}

func rewriteBranch(b *parse.BranchNode) {
	rewritePipe(b.Pipe)
	rewriteList(b.List)
	rewriteList(b.ElseList)
}

func rewritePipe(pipe *parse.PipeNode) {
	if pipe == nil {
		return
	}
	for i, cmd := range pipe.Cmds {
		// A lone chain leading the pipeline is replaced in place. Chains that
		// receive a piped value or take arguments are method calls.
		if i == 0 && len(cmd.Args) == 1 {
			if args := resolveArgs(cmd.Args[0]); args != nil {
				cmd.Args = args
				continue
			}
		}
		for j, arg := range cmd.Args {
			if j == 0 {
				if p, ok := arg.(*parse.PipeNode); ok {
					rewritePipe(p)
				}
				continue
			}
			cmd.Args[j] = rewriteArg(arg)
		}
	}
}

// rewriteArg returns arg, or a parenthesized resolvePath call when arg is a
// field chain.
func rewriteArg(arg parse.Node) parse.Node {
	if p, ok := arg.(*parse.PipeNode); ok {
		rewritePipe(p)
		return p
	}
	args := resolveArgs(arg)
	if args == nil {
		return arg
	}
	return &parse.PipeNode{
		NodeType: parse.NodePipe,
		Pos:      arg.Position(),
		Cmds: []*parse.CommandNode{{
			NodeType: parse.NodeCommand,
			Pos:      arg.Position(),
			Args:     args,
		}},
	}
}

// resolveArgs returns the command arguments calling resolvePath for node, or
// nil when node is not a chain of two or more fields.
func resolveArgs(node parse.Node) []parse.Node {
	pos := node.Position()

	var root parse.Node
	var path []string
	switch n := node.(type) {
	case *parse.FieldNode:
		if len(n.Ident) < 2 {
			return nil
		}
		root = &parse.DotNode{NodeType: parse.NodeDot, Pos: pos}
		path = n.Ident
	case *parse.VariableNode:
		if len(n.Ident) < 2 {
			return nil
		}
		root = &parse.VariableNode{NodeType: parse.NodeVariable, Pos: pos, Ident: n.Ident[:1]}
		path = n.Ident[1:]
	case *parse.ChainNode:
		root = rewriteArg(n.Node)
		path = n.Field
	default:
		return nil
	}

	args := make([]parse.Node, 0, len(path)+2)
	args = append(args, parse.NewIdentifier(resolveFunc).SetPos(pos), root)
	for _, field := range path {
		args = append(args, &parse.StringNode{
			NodeType: parse.NodeString,
			Pos:      pos,
			Quoted:   strconv.Quote(field),
			Text:     field,
		})
	}
	return args
}
