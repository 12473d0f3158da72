package sgnodes

import "github.com/wayneeseguin/sgcore/pkg/sg"

// ScaleType/ScaleIndex are assigned once, at package init, giving this
// element class a stable stack index for the lifetime of the process.
var (
	ScaleType  sg.TypeId
	ScaleIndex sg.StackIndex
)

func init() {
	ScaleType, ScaleIndex, _ = sg.DefaultElementRegistry.RegisterElementClass(
		sg.BadType, "Scale", func() sg.Element { return &ScaleElement{Accumulated: 1} },
	)
}

// ScaleElement accumulates the product of every Transform.Scale from the
// traversal root down to the current node, the demo's stand-in for
// Coin3D's SoModelMatrixElement.
type ScaleElement struct {
	sg.BaseElement
	Accumulated float64
}

func (e *ScaleElement) Init(*sg.State) { e.Accumulated = 1 }

func (e *ScaleElement) Clone() sg.Element {
	cp := *e
	return &cp
}

// Multiply folds factor into the accumulated scale in place - called by
// the Transform action method on the element GetWritable returned.
func (e *ScaleElement) Multiply(factor float64) {
	e.Accumulated *= factor
}
