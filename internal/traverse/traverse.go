package traverse

import (
	"github.com/disposejs/dispose/internal/js_ast"
)

// A visitor is called for every node. "Enter" runs before the children of a
// node are visited and "Exit" runs after. Either may be nil. Returning an
// error stops the traversal.
type Visitor struct {
	Enter func(p *Path) error
	Exit  func(p *Path) error
}

// A replaced node is visited again from the start, with every visitor. This
// bounds how many times one slot can be revisited so that two rewrites that
// undo each other can't loop forever.
const MaxRevisits = 64

type traverser struct {
	visitors []Visitor
}

// Visits every node of the tree depth-first. Visitors run in the order given
// and the next visitor only runs if the previous one left the node in place.
// When a visitor replaces the node, the new node is visited from the start.
// Nodes spliced into a list are all visited.
func Traverse(tree *js_ast.AST, visitors ...Visitor) error {
	return TraversePath(Root(tree), visitors...)
}

// Like "Traverse" but starts at an arbitrary path
func TraversePath(root *Path, visitors ...Visitor) error {
	t := traverser{visitors: visitors}
	return t.visit(root)
}

func (t *traverser) visit(p *Path) error {
	for revisits := 0; revisits <= MaxRevisits; revisits++ {
		node := p.Node()
		if node == nil {
			return nil
		}

		// Enter
		for _, v := range t.visitors {
			if v.Enter == nil {
				continue
			}
			if err := v.Enter(p); err != nil {
				return err
			}
			if p.Node() != node {
				break
			}
		}
		if current := p.Node(); current != node {
			if current == nil || p.span != 1 {
				return nil
			}
			continue
		}

		// Children
		for _, list := range p.children() {
			if err := t.visitList(list); err != nil {
				return err
			}
			if p.Node() != node {
				break
			}
		}

		// Exit
		if p.Node() == node {
			for _, v := range t.visitors {
				if v.Exit == nil {
					continue
				}
				if err := v.Exit(p); err != nil {
					return err
				}
				if p.Node() != node {
					break
				}
			}
		}
		if current := p.Node(); current != node && current != nil && p.span == 1 {
			continue
		}
		return nil
	}
	return nil
}

func (t *traverser) visitList(list childList) error {
	visits := make(map[int]int)
	for i := 0; i < list.length(); {
		if visits[i] > MaxRevisits {
			i++
			continue
		}
		visits[i]++

		child := list.at(i)
		if err := t.visit(child); err != nil {
			return err
		}
		if !child.InList() {
			i++
			continue
		}

		// Continue after this element. An element that was removed or replaced
		// by several nodes is followed by whatever is now at its index, so
		// nodes spliced in get visited too.
		if child.locate() && child.span == 1 {
			i = child.index + 1
		} else {
			i = child.index
		}
	}
	return nil
}
