package grid

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/grindlemire/go-grid/internal/debug"
)

// Table composes the row key resolver, column registry, filter, sort,
// pagination, selection and expansion engines into one state object.
//
// Every mutation re-derives the visible rows from scratch and publishes a
// new TableView. Mutations must happen on one goroutine (the UI loop);
// Table is not safe for concurrent use. Asynchronous child loads deliver
// their results through the configured Dispatcher.
//
// Example:
//
//	t, err := grid.New(columns,
//	    grid.WithData(users),
//	    grid.WithPagination[User](grid.PaginationConfig{PageSize: 5}),
//	)
//	if err != nil {
//	    return err
//	}
//	_ = t.ToggleSort("age")
//	view := t.View()
type Table[T any] struct {
	cfg  config[T]
	cols *Columns[T]

	data        []T
	rows        []Row[T]
	byKey       map[Key]int
	keyWarnings []Warning
	derived     []Row[T]

	sortSlot      *slot[SortState]
	filterSlot    *slot[FilterState]
	pageSlot      *slot[PageState]
	selectionSlot *slot[[]Key]
	expansionSlot *slot[[]Key]
	views         *slot[TableView[T]]

	selection *Selection
	expansion *Expansion[T]

	batchDepth int
	dirty      bool
	pending    []func()
	batchSnap  snapshot

	ctx    context.Context
	cancel context.CancelFunc
	loads  map[Key]loadHandle
	sem    *semaphore.Weighted
	closed bool
}

// New builds a table over columns. The first view is derived before New
// returns.
func New[T any](columns []Column[T], opts ...Option[T]) (*Table[T], error) {
	cols, err := NewColumns(columns)
	if err != nil {
		return nil, err
	}

	cfg := newConfig[T]()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	cfg.locale = cfg.locale.withDefaults()

	if cfg.expansion != nil && cfg.expansion.LoadChildren != nil && cfg.dispatcher == nil {
		return nil, ErrNoDispatcher
	}

	t := &Table[T]{
		cfg:   cfg,
		cols:  cols,
		loads: make(map[Key]loadHandle),
		views: newSlot(TableView[T]{}),
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())
	if cfg.maxLoads > 0 {
		t.sem = semaphore.NewWeighted(int64(cfg.maxLoads))
	}

	t.initSlots()

	mode := SelectCheckbox
	if cfg.selection != nil {
		mode = cfg.selection.Mode
	}
	t.selection = NewSelection(mode, t.keyDisabled)
	lazy := cfg.expansion != nil && cfg.expansion.LoadChildren != nil
	t.expansion = NewExpansion[T](lazy, t.keyExpandable)

	t.setRecords(cfg.data)
	if err := t.commit(); err != nil {
		t.cancel()
		return nil, fmt.Errorf("initial derivation: %w", err)
	}
	return t, nil
}

// initSlots creates one slot per state axis. An axis with an external
// getter is controlled; every other axis starts from its default.
func (t *Table[T]) initSlots() {
	cfg := &t.cfg

	if cfg.sortCtl != nil {
		t.sortSlot = controlledSlot(cfg.sortCtl.get, cfg.sortCtl.onChange)
	} else {
		t.sortSlot = newSlot(t.defaultSort())
	}

	if cfg.filterCtl != nil {
		t.filterSlot = controlledSlot(cfg.filterCtl.get, cfg.filterCtl.onChange)
	} else {
		t.filterSlot = newSlot(t.defaultFilters())
	}

	if cfg.pageCtl != nil {
		t.pageSlot = controlledSlot(cfg.pageCtl.get, cfg.pageCtl.onChange)
	} else {
		ps := PageState{Current: 1}
		if cfg.pagination != nil {
			ps = PageState{Current: cfg.pagination.Current, Size: cfg.pagination.PageSize}
		}
		t.pageSlot = newSlot(ps)
	}

	if cfg.selectionCtl != nil {
		t.selectionSlot = controlledSlot(cfg.selectionCtl.get, cfg.selectionCtl.onChange)
	} else {
		t.selectionSlot = newSlot(cfg.defaultSelection)
	}

	if cfg.expansionCtl != nil {
		t.expansionSlot = controlledSlot(cfg.expansionCtl.get, cfg.expansionCtl.onChange)
	} else {
		t.expansionSlot = newSlot(cfg.defaultExpanded)
	}
}

func (t *Table[T]) defaultSort() SortState {
	if t.cfg.defaultSort != nil {
		return *t.cfg.defaultSort
	}
	for _, c := range t.cols.All() {
		if c.DefaultSortOrder != SortNone {
			return SortState{ColumnKey: c.Key, Order: c.DefaultSortOrder}
		}
	}
	return SortState{}
}

func (t *Table[T]) defaultFilters() FilterState {
	f := FilterState{}
	for _, c := range t.cols.All() {
		if len(c.DefaultFilteredValue) > 0 {
			f = f.With(c.Key, c.DefaultFilteredValue)
		}
	}
	for k, v := range t.cfg.defaultFilters {
		f = f.With(k, v)
	}
	return f
}

// setRecords resolves identities for records and reports key collisions.
func (t *Table[T]) setRecords(records []T) {
	t.data = records
	t.rows, t.byKey, t.keyWarnings = ResolveRows(records, t.cfg.rowKey)
	t.emitWarnings(t.keyWarnings)
}

func (t *Table[T]) present(k Key) bool {
	_, ok := t.byKey[k]
	return ok
}

// record returns the record registered under k. With duplicate keys the
// last record carrying k wins.
func (t *Table[T]) record(k Key) (T, bool) {
	i, ok := t.byKey[k]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[i].Record, true
}

func (t *Table[T]) keyDisabled(k Key) bool {
	if t.cfg.selection == nil || t.cfg.selection.Disabled == nil {
		return false
	}
	rec, ok := t.record(k)
	return ok && t.cfg.selection.Disabled(rec)
}

func (t *Table[T]) keyExpandable(k Key) bool {
	if t.cfg.expansion == nil {
		return false
	}
	if t.cfg.expansion.RowExpandable == nil {
		return true
	}
	rec, ok := t.record(k)
	if !ok {
		// absent rows are kept only under WithPreserveExpansion
		return true
	}
	return t.cfg.expansion.RowExpandable(rec)
}

// View returns the most recently published view.
func (t *Table[T]) View() TableView[T] {
	return t.views.current()
}

// OnView registers fn to receive every newly published view.
func (t *Table[T]) OnView(fn func(TableView[T])) Unbind {
	return t.views.bind(fn)
}

// Columns returns the column registry.
func (t *Table[T]) Columns() *Columns[T] {
	return t.cols
}

// Data returns the current records.
func (t *Table[T]) Data() []T {
	return t.data
}

// Derived returns the full filtered and sorted sequence behind the
// current view.
func (t *Table[T]) Derived() []Row[T] {
	return t.derived
}

// Close cancels every in-flight child load. Results that arrive later are
// discarded.
func (t *Table[T]) Close() {
	t.closed = true
	t.cancel()
	for k, h := range t.loads {
		h.cancel()
		delete(t.loads, k)
	}
}

// snapshot captures the uncontrolled sort, filter and page values so a
// failed derivation can put them back.
type snapshot struct {
	sort    SortState
	filters FilterState
	page    PageState
}

func (t *Table[T]) snapshot() snapshot {
	return snapshot{
		sort:    t.sortSlot.value,
		filters: t.filterSlot.value.Clone(),
		page:    t.pageSlot.value,
	}
}

func (t *Table[T]) restore(s snapshot) {
	t.sortSlot.store(s.sort)
	t.filterSlot.store(s.filters)
	t.pageSlot.store(s.page)
}

// after queues fn to run once the current mutation commits successfully.
func (t *Table[T]) after(fn func()) {
	t.pending = append(t.pending, fn)
}

// commit derives and publishes a new view, or defers that to the end of
// the enclosing Batch. Callbacks queued with after run only on success.
func (t *Table[T]) commit() error {
	if t.batchDepth > 0 {
		t.dirty = true
		return nil
	}
	t.dirty = false
	err := t.derive()
	callbacks := t.pending
	t.pending = nil
	if err != nil {
		return err
	}
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// Batch runs fn and derives once when it returns, however many mutations
// fn made. Mutations inside fn return nil; a derivation failure is
// returned by Batch, which then restores the sort, filter and page state
// from before the batch.
//
// Nested Batch calls are supported - the view is derived only when the
// outermost Batch completes.
func (t *Table[T]) Batch(fn func()) (err error) {
	if t.batchDepth == 0 {
		t.batchSnap = t.snapshot()
	}
	t.batchDepth++
	defer func() {
		t.batchDepth--
		if t.batchDepth > 0 || !t.dirty {
			return
		}
		if err = t.commit(); err != nil {
			t.restore(t.batchSnap)
		}
	}()
	fn()
	return nil
}

// Refresh re-derives the view. Call it after changing controlled state or
// mutating records in place.
func (t *Table[T]) Refresh() error {
	return t.commit()
}

// derive runs the full pipeline and publishes the resulting view. A sort
// comparator failure leaves the previous view in place.
func (t *Table[T]) derive() error {
	t.syncSelection()
	t.syncExpansion()

	filters := t.filterSlot.current()
	filtered, warnings := ApplyFilters(t.rows, filters, t.cols)
	t.emitWarnings(warnings)

	sortState := t.sortSlot.current()
	sorted, err := ApplySort(filtered, sortState, t.cols)
	if err != nil {
		debug.Log("Table.derive: %v (keeping previous view)", err)
		return err
	}
	t.derived = sorted

	ps := t.pageState()
	page := Paginate(sorted, ps)
	if t.cfg.pagination != nil && page.Page != ps.Current {
		debug.Log("Table.derive: clamping page %d to %d", ps.Current, page.Page)
		t.pageSlot.store(PageState{Current: page.Page, Size: ps.Size})
	}

	t.cancelStaleLoads()
	t.startPendingLoads()

	all := make([]Warning, 0, len(t.keyWarnings)+len(warnings))
	all = append(all, t.keyWarnings...)
	all = append(all, warnings...)

	view := t.buildView(page, sortState, filters, all)
	debug.Log("Table.derive: %d records, %d filtered, page %d/%d", len(t.rows), len(sorted), view.Page, view.TotalPages)
	t.views.set(view)
	return nil
}

// pageState returns the effective page request. Disabled pagination is a
// single page of every row.
func (t *Table[T]) pageState() PageState {
	if t.cfg.pagination == nil {
		return PageState{Current: 1}
	}
	ps := t.pageSlot.current()
	if ps.Size < 1 {
		ps.Size = t.cfg.pagination.PageSize
	}
	return ps
}

func (t *Table[T]) syncSelection() {
	t.selection.Replace(t.selectionSlot.current())
}

func (t *Table[T]) syncExpansion() {
	t.expansion.Replace(t.expansionSlot.current())
}

func (t *Table[T]) emitWarnings(ws []Warning) {
	for _, w := range ws {
		debug.Log("grid warning: %s", w)
		if t.cfg.onWarning != nil {
			t.cfg.onWarning(w)
		}
	}
}

func (t *Table[T]) buildView(page PageResult[T], s SortState, f FilterState, ws []Warning) TableView[T] {
	cfg := &t.cfg
	rows := make([]ViewRow[T], len(page.Rows))
	for i, r := range page.Rows {
		vr := ViewRow[T]{Row: r}
		if cfg.selection != nil {
			vr.Selected = t.selection.IsSelected(r.Key)
			vr.Disabled = t.keyDisabled(r.Key)
		}
		if cfg.expansion != nil {
			vr.Expandable = t.expansion.CanExpand(r.Key)
			vr.Expanded = t.expansion.IsExpanded(r.Key)
			vr.Status = t.expansion.Status(r.Key)
			vr.Children, _ = t.expansion.Children(r.Key)
			vr.LoadErr = t.expansion.Err(r.Key)
		}
		rows[i] = vr
	}

	view := TableView[T]{
		Columns:      t.cols.Groups(),
		Rows:         rows,
		TotalRecords: page.Total,
		TotalPages:   page.TotalPages,
		Page:         page.Page,
		Sort:         s,
		Filters:      f.Clone(),
		Empty:        page.Total == 0,
		EmptyText:    cfg.locale.EmptyText,
		Locale:       cfg.locale,
		Loading:      cfg.loading,
		OnRow:        cfg.onRow,
		Warnings:     ws,
	}

	view.Pager = PagerView{
		Enabled:    cfg.pagination != nil,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		From:       page.From,
		To:         page.To,
		Window:     PageWindow(page.Page, page.TotalPages, DefaultPageWindow),
	}
	if p := cfg.pagination; p != nil {
		view.Pager.PageSize = t.pageState().Size
		view.Pager.SizeOptions = p.SizeOptions()
		view.Pager.ShowSizeChanger = p.ShowSizeChanger
		view.Pager.ShowQuickJumper = p.ShowQuickJumper
		if p.ShowTotal != nil {
			view.Pager.TotalText = p.ShowTotal(page.Total, page.From, page.To)
		} else {
			view.Pager.TotalText = defaultTotalText(page.Total, page.From, page.To)
		}
	} else {
		view.Pager.PageSize = page.Total
	}

	if cfg.selection != nil {
		visible := keysOf(page.Rows)
		view.Selection = SelectionView{
			Enabled:       true,
			Mode:          t.selection.Mode(),
			Keys:          t.visibleKeys(t.selection.Keys(), cfg.preserveSelection),
			AllSelected:   t.selection.AllSelected(visible),
			Indeterminate: t.selection.IsIndeterminate(visible),
		}
	}

	if cfg.expansion != nil {
		keys := t.visibleKeys(t.expansion.Keys(), cfg.preserveExpansion)
		status := make(map[Key]LoadStatus, len(keys))
		for _, k := range keys {
			status[k] = t.expansion.Status(k)
		}
		view.Expansion = ExpansionView[T]{
			Enabled:          true,
			Keys:             keys,
			Status:           status,
			RowRender:        cfg.expansion.RowRender,
			ExpandRowByClick: cfg.expansion.ExpandRowByClick,
		}
	}
	return view
}

// visibleKeys drops keys whose rows are gone unless preserve is set.
func (t *Table[T]) visibleKeys(keys []Key, preserve bool) []Key {
	if preserve {
		return keys
	}
	out := keys[:0:0]
	for _, k := range keys {
		if t.present(k) {
			out = append(out, k)
		}
	}
	return out
}
