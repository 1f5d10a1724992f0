package grid

// slot holds one axis of table state (sort, filters, page, selection or
// expansion).
//
// An uncontrolled slot owns its value: set stores the new value and then
// notifies. A controlled slot reads its value from the caller through get
// and never stores anything: set only hands the proposed value to the
// caller's change callback, and the next get decides what the table sees.
//
// Example:
//
//	s := newSlot(SortState{})
//	s.bind(func(v SortState) { fmt.Println("sort is now", v) })
//	s.set(SortState{ColumnKey: "age", Order: SortAscend})
type slot[S any] struct {
	value    S
	get      func() S
	onChange func(S)
	bindings []*binding[S]
}

// binding represents a registered callback that fires when a slot changes.
type binding[S any] struct {
	fn     func(S)
	active bool
}

// Unbind is a handle to remove a binding. Call it to prevent
// future callback invocations for the associated binding.
type Unbind func()

// newSlot creates an uncontrolled slot holding initial.
func newSlot[S any](initial S) *slot[S] {
	return &slot[S]{value: initial}
}

// controlledSlot creates a slot whose value is owned by the caller.
// onChange may be nil, in which case proposed values are dropped.
func controlledSlot[S any](get func() S, onChange func(S)) *slot[S] {
	return &slot[S]{get: get, onChange: onChange}
}

// controlled reports whether the caller owns the value.
func (s *slot[S]) controlled() bool {
	return s.get != nil
}

// current returns the authoritative value.
func (s *slot[S]) current() S {
	if s.get != nil {
		return s.get()
	}
	return s.value
}

// set proposes v. Uncontrolled slots store it; both kinds then call the
// change callback and every active binding, in registration order.
func (s *slot[S]) set(v S) {
	if s.get == nil {
		s.value = v
	}
	if s.onChange != nil {
		s.onChange(v)
	}
	s.notify(v)
}

// store overwrites an uncontrolled value without notifying anyone. It is
// used for internal corrections such as clamping. Controlled slots ignore it.
func (s *slot[S]) store(v S) {
	if s.get == nil {
		s.value = v
	}
}

// notify runs active bindings and drops inactive ones.
func (s *slot[S]) notify(v S) {
	active := s.bindings[:0]
	for _, b := range s.bindings {
		if b.active {
			active = append(active, b)
		}
	}
	s.bindings = active
	for _, b := range append([]*binding[S](nil), active...) {
		b.fn(v)
	}
}

// bind registers fn to be called with each value passed to set or notify.
// Bindings are executed in registration order.
func (s *slot[S]) bind(fn func(S)) Unbind {
	b := &binding[S]{fn: fn, active: true}
	s.bindings = append(s.bindings, b)
	return func() {
		b.active = false
	}
}
