package grid

// SelectionMode selects checkbox (many) or radio (at most one) semantics.
type SelectionMode int

const (
	SelectCheckbox SelectionMode = iota
	SelectRadio
)

// String returns "checkbox" or "radio".
func (m SelectionMode) String() string {
	if m == SelectRadio {
		return "radio"
	}
	return "checkbox"
}

// Selection tracks selected row identities. It works on keys, not page
// positions, so a selection made on one page survives navigation.
//
// The zero value is an empty checkbox selection.
type Selection struct {
	mode     SelectionMode
	keys     map[Key]struct{}
	order    []Key
	disabled func(Key) bool
}

// NewSelection returns an empty selection. disabled may be nil.
func NewSelection(mode SelectionMode, disabled func(Key) bool) *Selection {
	return &Selection{mode: mode, disabled: disabled, keys: map[Key]struct{}{}}
}

// Mode returns the selection mode.
func (s *Selection) Mode() SelectionMode {
	return s.mode
}

// SetDisabled replaces the disabled predicate.
func (s *Selection) SetDisabled(fn func(Key) bool) {
	s.disabled = fn
}

func (s *Selection) isDisabled(k Key) bool {
	return s.disabled != nil && s.disabled(k)
}

// Toggle flips k. In radio mode selecting k replaces the whole set; a
// second toggle of the selected key clears it. Disabled keys are ignored.
// Reports whether the selection changed.
func (s *Selection) Toggle(k Key) bool {
	if s.isDisabled(k) {
		return false
	}
	if s.IsSelected(k) {
		s.remove(k)
		return true
	}
	if s.mode == SelectRadio {
		s.reset()
	}
	s.add(k)
	return true
}

// SelectAll adds every enabled key in keys. Whether keys is the current
// page or the whole collection is the caller's choice. In radio mode only
// the first enabled key is kept.
func (s *Selection) SelectAll(keys []Key) bool {
	changed := false
	for _, k := range keys {
		if s.isDisabled(k) || s.IsSelected(k) {
			continue
		}
		if s.mode == SelectRadio {
			if len(s.order) > 0 {
				break
			}
		}
		s.add(k)
		changed = true
	}
	return changed
}

// DeselectAll removes every enabled key in keys.
func (s *Selection) DeselectAll(keys []Key) bool {
	changed := false
	for _, k := range keys {
		if s.isDisabled(k) || !s.IsSelected(k) {
			continue
		}
		s.remove(k)
		changed = true
	}
	return changed
}

// Clear empties the selection.
func (s *Selection) Clear() bool {
	if len(s.order) == 0 {
		return false
	}
	s.reset()
	return true
}

// Replace sets the selection to keys, enforcing the radio limit.
func (s *Selection) Replace(keys []Key) {
	s.reset()
	for _, k := range keys {
		if s.mode == SelectRadio && len(s.order) == 1 {
			break
		}
		if !s.IsSelected(k) {
			s.add(k)
		}
	}
}

// IsSelected reports whether k is selected.
func (s *Selection) IsSelected(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Keys returns the selected keys in selection order.
func (s *Selection) Keys() []Key {
	return append([]Key(nil), s.order...)
}

// Len returns the number of selected keys.
func (s *Selection) Len() int {
	return len(s.order)
}

// AllSelected reports whether every enabled key in visible is selected.
// It is false when visible has no enabled keys.
func (s *Selection) AllSelected(visible []Key) bool {
	enabled := 0
	for _, k := range visible {
		if s.isDisabled(k) {
			continue
		}
		enabled++
		if !s.IsSelected(k) {
			return false
		}
	}
	return enabled > 0
}

// IsIndeterminate reports whether some, but not all, enabled keys in
// visible are selected. This drives a tri-state select-all control.
func (s *Selection) IsIndeterminate(visible []Key) bool {
	some, all := false, true
	for _, k := range visible {
		if s.isDisabled(k) {
			continue
		}
		if s.IsSelected(k) {
			some = true
		} else {
			all = false
		}
	}
	return some && !all
}

// Retain drops selected keys not present in present. Reports whether any
// key was dropped.
func (s *Selection) Retain(present func(Key) bool) bool {
	kept := s.order[:0]
	dropped := false
	for _, k := range s.order {
		if present(k) {
			kept = append(kept, k)
			continue
		}
		delete(s.keys, k)
		dropped = true
	}
	s.order = kept
	return dropped
}

func (s *Selection) add(k Key) {
	if s.keys == nil {
		s.keys = map[Key]struct{}{}
	}
	s.keys[k] = struct{}{}
	s.order = append(s.order, k)
}

func (s *Selection) remove(k Key) {
	delete(s.keys, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Selection) reset() {
	s.keys = map[Key]struct{}{}
	s.order = nil
}
