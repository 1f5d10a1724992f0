package grid

import (
	"fmt"
)

// SetData replaces the records. Identities are resolved again, selection
// and expansion of rows that disappeared are pruned (unless preserved),
// and every in-flight child load is invalidated.
func (t *Table[T]) SetData(records []T) error {
	t.setRecords(records)

	if t.cfg.selection != nil && !t.cfg.preserveSelection && !t.selectionSlot.controlled() {
		t.syncSelection()
		if t.selection.Retain(t.present) {
			t.proposeSelection()
		}
	}

	if t.cfg.expansion != nil {
		t.syncExpansion()
		t.expansion.Invalidate()
		present := t.present
		if t.cfg.preserveExpansion {
			present = func(Key) bool { return true }
		}
		if dropped := t.expansion.Retain(present); len(dropped) > 0 && !t.expansionSlot.controlled() {
			t.proposeExpansion()
		}
	}

	return t.commit()
}

// ToggleSort applies a header click on column key: ascend, then descend,
// then unsorted. Clicking another column starts it at ascend.
func (t *Table[T]) ToggleSort(key string) error {
	col, ok := t.cols.Lookup(key)
	if !ok {
		return fmt.Errorf("sort %q: %w", key, ErrUnknownColumn)
	}
	if !col.IsSortable() {
		return fmt.Errorf("sort %q: %w", key, ErrNotSortable)
	}
	return t.changeSort(NextSort(t.sortSlot.current(), key))
}

// SetSort replaces the sort state.
func (t *Table[T]) SetSort(s SortState) error {
	if s.Order == SortNone || s.ColumnKey == "" {
		return t.changeSort(SortState{})
	}
	col, ok := t.cols.Lookup(s.ColumnKey)
	if !ok {
		return fmt.Errorf("sort %q: %w", s.ColumnKey, ErrUnknownColumn)
	}
	if !col.IsSortable() {
		return fmt.Errorf("sort %q: %w", s.ColumnKey, ErrNotSortable)
	}
	return t.changeSort(s)
}

func (t *Table[T]) changeSort(next SortState) error {
	snap := t.snapshot()
	t.sortSlot.set(next)
	t.resetPage()
	t.after(func() {
		if t.cfg.onSortChange != nil {
			t.cfg.onSortChange(next)
		}
		t.emitChange(ActionSort)
	})
	if err := t.commit(); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}

// SetFilter selects values for column key. Empty values clear the
// column's filter.
func (t *Table[T]) SetFilter(key string, values ...any) error {
	if _, ok := t.cols.Lookup(key); !ok {
		return fmt.Errorf("filter %q: %w", key, ErrUnknownColumn)
	}
	return t.changeFilters(t.filterSlot.current().With(key, values))
}

// ClearFilter removes the filter on column key.
func (t *Table[T]) ClearFilter(key string) error {
	return t.SetFilter(key)
}

// ClearFilters removes every filter.
func (t *Table[T]) ClearFilters() error {
	return t.changeFilters(FilterState{})
}

// SetFilters replaces the whole filter state.
func (t *Table[T]) SetFilters(f FilterState) error {
	next := FilterState{}
	for k, v := range f {
		if _, ok := t.cols.Lookup(k); !ok {
			return fmt.Errorf("filter %q: %w", k, ErrUnknownColumn)
		}
		next = next.With(k, v)
	}
	return t.changeFilters(next)
}

func (t *Table[T]) changeFilters(next FilterState) error {
	snap := t.snapshot()
	t.filterSlot.set(next)
	t.resetPage()
	t.after(func() {
		if t.cfg.onFilterChange != nil {
			t.cfg.onFilterChange(next.Clone())
		}
		t.emitChange(ActionFilter)
	})
	if err := t.commit(); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}

// resetPage moves back to page 1 after a sort or filter change. The
// uncontrolled value changes at once; the proposal to owners and bindings
// waits until the mutation commits.
func (t *Table[T]) resetPage() {
	if t.cfg.pagination == nil {
		return
	}
	ps := t.pageState()
	if ps.Current == 1 {
		return
	}
	next := PageState{Current: 1, Size: ps.Size}
	t.pageSlot.store(next)
	t.after(func() { t.pageSlot.set(next) })
}

// SetPage requests page n. Out-of-range pages are clamped during
// derivation.
func (t *Table[T]) SetPage(n int) error {
	if t.cfg.pagination == nil {
		return ErrPaginationDisabled
	}
	ps := t.pageState()
	ps.Current = n
	t.pageSlot.set(ps)
	t.after(func() {
		v := t.View()
		if fn := t.cfg.pagination.OnChange; fn != nil {
			fn(v.Page, v.Pager.PageSize)
		}
		t.emitChange(ActionPaginate)
	})
	return t.commit()
}

// NextPage moves one page forward, staying on the last page.
func (t *Table[T]) NextPage() error {
	return t.SetPage(t.View().Page + 1)
}

// PrevPage moves one page back, staying on the first page.
func (t *Table[T]) PrevPage() error {
	return t.SetPage(t.View().Page - 1)
}

// QuickJump moves to page n, rejecting pages outside 1..TotalPages.
func (t *Table[T]) QuickJump(n int) error {
	if t.cfg.pagination == nil {
		return ErrPaginationDisabled
	}
	if err := validateJump(n, t.View().TotalPages); err != nil {
		return err
	}
	return t.SetPage(n)
}

// SetPageSize changes the page size. The current page index is kept and
// clamped to the new page count.
func (t *Table[T]) SetPageSize(n int) error {
	if t.cfg.pagination == nil {
		return ErrPaginationDisabled
	}
	if n < 1 {
		return fmt.Errorf("page size %d: %w", n, ErrInvalidPageSize)
	}
	ps := t.pageState()
	ps.Size = n
	t.pageSlot.set(ps)
	t.after(func() {
		v := t.View()
		p := t.cfg.pagination
		if p.OnShowSizeChange != nil {
			p.OnShowSizeChange(v.Page, n)
		}
		if p.OnChange != nil {
			p.OnChange(v.Page, n)
		}
		t.emitChange(ActionPaginate)
	})
	return t.commit()
}

// emitChange reports the committed state to the change handler.
func (t *Table[T]) emitChange(action ChangeAction) {
	if t.cfg.onChange == nil {
		return
	}
	v := t.View()
	data := make([]T, len(t.derived))
	for i, r := range t.derived {
		data[i] = r.Record
	}
	t.cfg.onChange(ChangeEvent[T]{
		Action:      action,
		Page:        v.Page,
		PageSize:    v.Pager.PageSize,
		Total:       v.TotalRecords,
		Filters:     v.Filters.Clone(),
		Sort:        v.Sort,
		CurrentData: data,
	})
}

func (t *Table[T]) requireRow(k Key) error {
	if !t.present(k) {
		return fmt.Errorf("row %q: %w", k, ErrUnknownRow)
	}
	return nil
}

// ToggleSelect flips the selection of row k. Disabled rows are ignored.
func (t *Table[T]) ToggleSelect(k Key) error {
	if t.cfg.selection == nil {
		return ErrSelectionDisabled
	}
	if err := t.requireRow(k); err != nil {
		return err
	}
	t.syncSelection()
	if t.selection.Toggle(k) {
		t.proposeSelection()
	}
	return t.commit()
}

// SelectAll adds keys to the selection, skipping disabled rows. Passing
// the current page or the whole filtered set is the caller's policy; see
// SelectVisible and SelectFiltered.
func (t *Table[T]) SelectAll(keys []Key) error {
	if t.cfg.selection == nil {
		return ErrSelectionDisabled
	}
	t.syncSelection()
	if t.selection.SelectAll(keys) {
		t.proposeSelection()
	}
	return t.commit()
}

// SelectVisible selects every enabled row on the current page.
func (t *Table[T]) SelectVisible() error {
	return t.SelectAll(t.View().Keys())
}

// SelectFiltered selects every enabled row of the filtered set, across
// all pages.
func (t *Table[T]) SelectFiltered() error {
	return t.SelectAll(keysOf(t.derived))
}

// ToggleSelectAll drives a header checkbox: when every enabled row on the
// page is selected they are all deselected, otherwise they are all
// selected.
func (t *Table[T]) ToggleSelectAll() error {
	if t.cfg.selection == nil {
		return ErrSelectionDisabled
	}
	visible := t.View().Keys()
	t.syncSelection()
	var changed bool
	if t.selection.AllSelected(visible) {
		changed = t.selection.DeselectAll(visible)
	} else {
		changed = t.selection.SelectAll(visible)
	}
	if changed {
		t.proposeSelection()
	}
	return t.commit()
}

// ClearSelection deselects every row.
func (t *Table[T]) ClearSelection() error {
	if t.cfg.selection == nil {
		return ErrSelectionDisabled
	}
	t.syncSelection()
	if t.selection.Clear() {
		t.proposeSelection()
	}
	return t.commit()
}

// Selected returns the selected keys.
func (t *Table[T]) Selected() []Key {
	return t.View().Selection.Keys
}

// SelectedRows returns the records of the selected keys that are present.
func (t *Table[T]) SelectedRows() []T {
	return t.recordsFor(t.View().Selection.Keys)
}

func (t *Table[T]) recordsFor(keys []Key) []T {
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		if rec, ok := t.record(k); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (t *Table[T]) proposeSelection() {
	keys := t.selection.Keys()
	t.selectionSlot.set(keys)
	if fn := t.cfg.selection.OnChange; fn != nil {
		rows := t.recordsFor(keys)
		t.after(func() { fn(keys, rows) })
	}
}

// ToggleExpand flips the expansion of row k. Non-expandable rows are
// ignored, as is a toggle while the row's children are loading.
func (t *Table[T]) ToggleExpand(k Key) error {
	return t.expand(k, func() ToggleResult { return t.expansion.Toggle(k) })
}

// Expand expands row k.
func (t *Table[T]) Expand(k Key) error {
	return t.expand(k, func() ToggleResult { return t.expansion.Expand(k) })
}

// Collapse collapses row k. A pending child load for k is cancelled and
// its result discarded.
func (t *Table[T]) Collapse(k Key) error {
	return t.expand(k, func() ToggleResult {
		return ToggleResult{Changed: t.expansion.Collapse(k)}
	})
}

func (t *Table[T]) expand(k Key, op func() ToggleResult) error {
	if t.cfg.expansion == nil {
		return ErrExpansionDisabled
	}
	if err := t.requireRow(k); err != nil {
		return err
	}
	t.syncExpansion()
	res := op()
	if res.Changed {
		t.proposeExpansion()
		if fn := t.cfg.expansion.OnExpand; fn != nil {
			rec, _ := t.record(k)
			expanded := res.Expanded
			t.after(func() { fn(expanded, rec) })
		}
	}
	return t.commit()
}

// Expanded returns the expanded keys.
func (t *Table[T]) Expanded() []Key {
	return t.View().Expansion.Keys
}

func (t *Table[T]) proposeExpansion() {
	keys := t.expansion.Keys()
	t.expansionSlot.set(keys)
	if fn := t.cfg.expansion.OnExpandedRowsChange; fn != nil {
		t.after(func() { fn(keys) })
	}
}
