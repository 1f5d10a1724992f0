package grid

// LoadStatus is the per-row state of an asynchronous child load.
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadLoading
	LoadLoaded
	LoadError
)

// String returns the status name.
func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadError:
		return "error"
	default:
		return "idle"
	}
}

// LoadToken identifies one child load. A result is accepted only while
// both generations still match the latest state for its key.
type LoadToken struct {
	Key     Key
	Dataset uint64
	Request uint64
}

// ToggleResult describes the effect of an expansion toggle.
type ToggleResult struct {
	Changed  bool
	Expanded bool
	// NeedsLoad is set when the row was expanded and children must be
	// fetched. Call BeginLoad to start it.
	NeedsLoad bool
}

// Expansion tracks expanded rows and their lazy child loads.
type Expansion[T any] struct {
	expanded   map[Key]struct{}
	order      []Key
	status     map[Key]LoadStatus
	children   map[Key][]T
	errs       map[Key]error
	request    map[Key]uint64
	dataset    uint64
	seq        uint64
	lazy       bool
	expandable func(Key) bool
}

// NewExpansion returns an empty expansion set. lazy enables child loading;
// expandable may be nil, meaning every row can expand.
func NewExpansion[T any](lazy bool, expandable func(Key) bool) *Expansion[T] {
	return &Expansion[T]{
		expanded:   map[Key]struct{}{},
		status:     map[Key]LoadStatus{},
		children:   map[Key][]T{},
		errs:       map[Key]error{},
		request:    map[Key]uint64{},
		lazy:       lazy,
		expandable: expandable,
	}
}

// SetExpandable replaces the expandable predicate.
func (e *Expansion[T]) SetExpandable(fn func(Key) bool) {
	e.expandable = fn
}

// CanExpand reports whether k may be toggled at all.
func (e *Expansion[T]) CanExpand(k Key) bool {
	return e.expandable == nil || e.expandable(k)
}

// Toggle flips k. It is a no-op for non-expandable rows and while a load
// for k is in flight.
func (e *Expansion[T]) Toggle(k Key) ToggleResult {
	if !e.CanExpand(k) || e.status[k] == LoadLoading {
		return ToggleResult{Expanded: e.IsExpanded(k)}
	}
	if e.IsExpanded(k) {
		e.Collapse(k)
		return ToggleResult{Changed: true}
	}
	return e.Expand(k)
}

// Expand marks k expanded. Rows whose children are not loaded yet, or
// whose last load failed, report NeedsLoad.
func (e *Expansion[T]) Expand(k Key) ToggleResult {
	if !e.CanExpand(k) {
		return ToggleResult{}
	}
	if e.IsExpanded(k) {
		return ToggleResult{Expanded: true}
	}
	e.expanded[k] = struct{}{}
	e.order = append(e.order, k)
	if !e.lazy {
		return ToggleResult{Changed: true, Expanded: true}
	}
	if e.status[k] == LoadError {
		// expanding again retries a failed load
		e.status[k] = LoadIdle
	}
	return ToggleResult{Changed: true, Expanded: true, NeedsLoad: e.status[k] == LoadIdle}
}

// Collapse removes k. An in-flight load for k becomes stale and resets to
// idle so the next expand fetches again.
func (e *Expansion[T]) Collapse(k Key) bool {
	if !e.IsExpanded(k) {
		return false
	}
	delete(e.expanded, k)
	for i, o := range e.order {
		if o == k {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.status[k] == LoadLoading {
		e.status[k] = LoadIdle
		e.bump(k)
	}
	return true
}

// BeginLoad moves k to loading and returns the token its result must carry.
// It fails when k is not expanded or a load is already in flight.
func (e *Expansion[T]) BeginLoad(k Key) (LoadToken, bool) {
	if !e.IsExpanded(k) || e.status[k] == LoadLoading {
		return LoadToken{}, false
	}
	e.seq++
	e.request[k] = e.seq
	e.status[k] = LoadLoading
	delete(e.errs, k)
	return LoadToken{Key: k, Dataset: e.dataset, Request: e.seq}, true
}

// Current reports whether tok is still the latest load for its key.
func (e *Expansion[T]) Current(tok LoadToken) bool {
	return tok.Dataset == e.dataset &&
		e.request[tok.Key] == tok.Request &&
		e.status[tok.Key] == LoadLoading &&
		e.IsExpanded(tok.Key)
}

// Resolve applies a load result. A nil err stores children and marks the
// row loaded; otherwise the row is marked errored. Stale tokens are
// discarded and Resolve reports false.
func (e *Expansion[T]) Resolve(tok LoadToken, children []T, err error) bool {
	if !e.Current(tok) {
		return false
	}
	if err != nil {
		e.status[tok.Key] = LoadError
		e.errs[tok.Key] = err
		delete(e.children, tok.Key)
		return true
	}
	e.status[tok.Key] = LoadLoaded
	e.children[tok.Key] = children
	return true
}

// Invalidate starts a new dataset generation. Every in-flight load becomes
// stale and resets to idle; the keys that are still expanded are returned
// so the caller can load them again.
func (e *Expansion[T]) Invalidate() []Key {
	e.dataset++
	var reload []Key
	// Collapse already reset collapsed rows, so only expanded rows can
	// still be loading.
	for _, k := range e.order {
		if e.status[k] == LoadLoading {
			e.status[k] = LoadIdle
			reload = append(reload, k)
		}
	}
	return reload
}

// Retain collapses expanded rows that are no longer present or no longer
// expandable, and forgets load state for rows that are gone. It returns
// the collapsed keys.
func (e *Expansion[T]) Retain(present func(Key) bool) []Key {
	var dropped []Key
	for _, k := range append([]Key(nil), e.order...) {
		if !present(k) || !e.CanExpand(k) {
			e.Collapse(k)
			dropped = append(dropped, k)
		}
	}
	for k := range e.status {
		if !present(k) {
			e.forget(k)
		}
	}
	return dropped
}

// Replace sets the expanded set to keys, skipping non-expandable rows.
// Rows leaving the set are collapsed as by Collapse. It returns the newly
// expanded keys that need a load.
func (e *Expansion[T]) Replace(keys []Key) []Key {
	want := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if e.CanExpand(k) {
			want[k] = struct{}{}
		}
	}
	for _, k := range append([]Key(nil), e.order...) {
		if _, ok := want[k]; !ok {
			e.Collapse(k)
		}
	}
	var load []Key
	for _, k := range keys {
		if _, ok := want[k]; !ok {
			continue
		}
		if r := e.Expand(k); r.NeedsLoad {
			load = append(load, k)
		}
	}
	return load
}

func (e *Expansion[T]) forget(k Key) {
	delete(e.status, k)
	delete(e.children, k)
	delete(e.errs, k)
	if _, ok := e.request[k]; ok {
		e.bump(k)
	}
}

// bump retires every token issued for k so far.
func (e *Expansion[T]) bump(k Key) {
	e.seq++
	e.request[k] = e.seq
}

// IsExpanded reports whether k is expanded.
func (e *Expansion[T]) IsExpanded(k Key) bool {
	_, ok := e.expanded[k]
	return ok
}

// Keys returns the expanded keys in expansion order.
func (e *Expansion[T]) Keys() []Key {
	return append([]Key(nil), e.order...)
}

// Status returns the load status of k.
func (e *Expansion[T]) Status(k Key) LoadStatus {
	return e.status[k]
}

// Children returns the loaded children of k.
func (e *Expansion[T]) Children(k Key) ([]T, bool) {
	c, ok := e.children[k]
	return c, ok
}

// Err returns the error of the last failed load of k.
func (e *Expansion[T]) Err(k Key) error {
	return e.errs[k]
}

// Dataset returns the current dataset generation.
func (e *Expansion[T]) Dataset() uint64 {
	return e.dataset
}
