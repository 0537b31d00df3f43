package binding

import "github.com/specialistvlad/viewparams/internal/convert"

// Putter is the write side of a Binder. Views use it to report state changes
// that happen in the UI, such as a tab being selected.
type Putter interface {
	Put(t convert.Type, v any) error
	PutValue(v any) error
	PutValues(elem convert.Type, values ...any) error
}

// Bindable is implemented by views that report their own state changes.
type Bindable interface {
	BindState(p Putter)
}

var _ Putter = (*Binder)(nil)

// BindViews hands b to every view that implements Bindable.
func (b *Binder) BindViews(views ...any) {
	for _, v := range views {
		if bv, ok := v.(Bindable); ok {
			bv.BindState(b)
		}
	}
}
