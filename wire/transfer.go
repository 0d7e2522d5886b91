package wire

// Transferable tags an argument list (or a result) with the buffers that
// should be moved to the peer instead of copied. The channel layer recognizes
// it only as the first element of an argument list or as the whole result; at
// most one transfer directive per call or response.
//
// Resources are not validated: a buffer listed here is moved, everything else
// in Values crosses under the channel's default copy semantics.
type Transferable struct {
	Values    []any
	Resources []*Buffer
}

// Transfer wraps values plus the buffers to hand off.
func Transfer(values []any, resources ...*Buffer) *Transferable {
	return &Transferable{Values: values, Resources: resources}
}

// Value flattens a Transferable used as a return value: a single wrapped
// value is unwrapped, anything else stays a slice.
func (t *Transferable) Value() any {
	if len(t.Values) == 1 {
		return t.Values[0]
	}
	return t.Values
}

// splitTransfer applies the first-element convention: if args[0] is a
// Transferable, its contents replace the argument list and its resources
// become the transfer set. Markers in any other position are plain values.
func splitTransfer(args []any) ([]any, []*Buffer) {
	if len(args) > 0 {
		if t, ok := args[0].(*Transferable); ok {
			return t.Values, t.Resources
		}
	}
	return args, nil
}
