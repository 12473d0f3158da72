package sgactions

import (
	"fmt"
	"io"
	"strings"

	"github.com/wayneeseguin/sgcore/pkg/sg"
)

// VisitEntry is one line of a DumpAction's trace.
type VisitEntry struct {
	Name  string
	Code  sg.PathCode
	Depth int
}

// DumpAction writes a visit trace as it traverses, in the spirit of a
// -debug/-trace flag logging each step through internal/log. It wraps an
// *sg.Action rather than embedding one, since the kernel's capability-set
// design has no base class for concrete actions to inherit from.
type DumpAction struct {
	Action *sg.Action
	Trace  []VisitEntry
}

// NewDumpAction creates a DumpAction bound to the shared traversal action
// class and the default node registry.
func NewDumpAction() *DumpAction {
	d := &DumpAction{
		Action: sg.NewAction(traversalClass, sg.DefaultNodeRegistry),
	}
	d.Action.UserData = d
	return d
}

func (d *DumpAction) record(name string, code sg.PathCode) {
	d.Trace = append(d.Trace, VisitEntry{
		Name:  name,
		Code:  code,
		Depth: d.Action.GetCurPath().Length(),
	})
}

// Apply resets the trace and applies to node.
func (d *DumpAction) Apply(node sg.Node) {
	d.Trace = nil
	d.Action.ApplyToNode(node)
}

// ApplyToPath resets the trace and applies along path.
func (d *DumpAction) ApplyToPath(path *sg.Path) {
	d.Trace = nil
	d.Action.ApplyToPath(path)
}

// ApplyToPathList resets the trace and applies to a pathlist.
func (d *DumpAction) ApplyToPathList(list *sg.PathList, obeysRules bool) {
	d.Trace = nil
	d.Action.ApplyToPathList(list, obeysRules)
}

// WriteTo renders the trace as indented "name (code)" lines.
func (d *DumpAction) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, e := range d.Trace {
		fmt.Fprintf(&b, "%s%s (%s)\n", strings.Repeat("  ", e.Depth), e.Name, e.Code)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
