package flatten

import "github.com/structflat/structflat/internal/token"

// typeNode is one node of the bracket-aware view of a type expression: either
// a plain token or an angle-bracket group. The scanner leaves `<` and `>` as
// plain puncts because they are not a native delimiter pair, so commas and
// declaration keywords inside generic argument lists would otherwise be
// indistinguishable from top-level structure.
type typeNode struct {
	group bool
	tok   token.Tree  // plain node
	open  token.Tree  // group: the `<`
	close *token.Tree // group: the `>`, nil when the source was unterminated
	inner []typeNode
}

func plainNode(t token.Tree) typeNode {
	return typeNode{tok: t}
}

func (n *typeNode) isPunct(ch rune) bool {
	return !n.group && n.tok.IsPunct(ch)
}

func (n *typeNode) declKeyword() *token.Tree {
	if !n.group && n.tok.Kind == token.Ident && isDeclKeyword(n.tok.Text) {
		return &n.tok
	}
	return nil
}

func isDeclKeyword(kw string) bool {
	switch kw {
	case "struct", "enum", "union", "type", "fn", "mod", "trait":
		return true
	}
	return false
}

// typeTree groups angle-bracket spans of a type expression. Every `<` pushes
// a frame holding the tokens accumulated at the enclosing level; the matching
// `>` pops it. An unmatched `>` is reported and kept as a plain token; frames
// still open at end of input are reported and closed without a terminator,
// preserving the structure built so far.
func typeTree(toks []token.Tree, out *Output) []typeNode {
	type frame struct {
		open   token.Tree
		parent []typeNode
	}
	var stack []frame
	var current []typeNode
	for _, t := range toks {
		switch {
		case t.IsPunct('<'):
			stack = append(stack, frame{open: t, parent: current})
			current = nil
		case t.IsPunct('>'):
			if len(stack) > 0 {
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				closer := t
				f.parent = append(f.parent, typeNode{group: true, open: f.open, close: &closer, inner: current})
				current = f.parent
			} else {
				sp := t.Span
				out.report(&sp, "Unexpected >")
				current = append(current, plainNode(t))
			}
		default:
			current = append(current, plainNode(t))
		}
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sp := f.open.Span
		out.report(&sp, "Unclosed group")
		f.parent = append(f.parent, typeNode{group: true, open: f.open, inner: current})
		current = f.parent
	}
	return current
}

// unTreeType flattens nodes back into a token stream, recursing through
// groups unchanged.
func unTreeType(nodes []typeNode, typeRet *[]token.Tree) {
	unTypeTree(nodes, typeRet, unTreeType)
}

// unTypeTree writes nodes into typeRet, delegating each group's children to
// f. A group with no close bracket contributes only its opening token.
func unTypeTree(nodes []typeNode, typeRet *[]token.Tree, f func([]typeNode, *[]token.Tree)) {
	for i := range nodes {
		n := &nodes[i]
		if n.group {
			*typeRet = append(*typeRet, n.open)
			f(n.inner, typeRet)
			if n.close != nil {
				*typeRet = append(*typeRet, *n.close)
			}
		} else {
			*typeRet = append(*typeRet, n.tok)
		}
	}
}
