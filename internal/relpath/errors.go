package relpath

import "fmt"

// WellFormednessError reports a node, along a walked path, that breaks the
// walker's single-successor assumption: more than one outgoing transition on
// the path's primary relation, more than one on the ordering relation, or a
// dead end that isn't the path's end node.
type WellFormednessError struct {
	Node   int
	Reason string
}

func (e *WellFormednessError) Error() string {
	return fmt.Sprintf("relation path: node %d: %s", e.Node, e.Reason)
}

func newWellFormednessError(node int, format string, args ...interface{}) error {
	return &WellFormednessError{Node: node, Reason: fmt.Sprintf(format, args...)}
}
