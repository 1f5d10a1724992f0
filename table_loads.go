package grid

import (
	"context"
	"fmt"

	"github.com/grindlemire/go-grid/internal/debug"
)

// loadHandle is the in-flight load of one row.
type loadHandle struct {
	tok    LoadToken
	cancel context.CancelFunc
}

// startPendingLoads starts a load for every expanded, present row whose
// children have not been requested yet.
func (t *Table[T]) startPendingLoads() {
	if t.closed || t.cfg.expansion == nil || t.cfg.expansion.LoadChildren == nil {
		return
	}
	for _, k := range t.expansion.Keys() {
		if t.expansion.Status(k) != LoadIdle {
			continue
		}
		rec, ok := t.record(k)
		if !ok {
			continue
		}
		t.startLoad(k, rec)
	}
}

func (t *Table[T]) startLoad(k Key, rec T) {
	tok, ok := t.expansion.BeginLoad(k)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.loads[k] = loadHandle{tok: tok, cancel: cancel}
	debug.Log("Table.startLoad: row %q dataset=%d request=%d", k, tok.Dataset, tok.Request)

	loader := t.cfg.expansion.LoadChildren
	dispatcher := t.cfg.dispatcher
	go func() {
		children, err := t.runLoad(ctx, loader, k, rec)
		dispatcher.QueueUpdate(func() {
			t.finishLoad(tok, children, err)
		})
	}()
}

// runLoad calls loader off the owning goroutine. It must only touch
// fields that never change after New.
func (t *Table[T]) runLoad(ctx context.Context, loader func(context.Context, Key, T) ([]T, error), k Key, rec T) (children []T, err error) {
	if t.sem != nil {
		if err := t.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer t.sem.Release(1)
	}
	defer func() {
		if r := recover(); r != nil {
			children = nil
			err = fmt.Errorf("load children of row %q panicked: %v", k, r)
		}
	}()
	return loader(ctx, k, rec)
}

// finishLoad applies a load result on the owning goroutine. Results whose
// token went stale are dropped without touching state.
func (t *Table[T]) finishLoad(tok LoadToken, children []T, err error) {
	if h, ok := t.loads[tok.Key]; ok && h.tok == tok {
		h.cancel()
		delete(t.loads, tok.Key)
	}
	if t.closed {
		return
	}
	if !t.expansion.Resolve(tok, children, err) {
		debug.Log("Table.finishLoad: discarding stale result for row %q (request=%d)", tok.Key, tok.Request)
		return
	}
	if err != nil {
		debug.Log("Table.finishLoad: row %q failed: %v", tok.Key, err)
	}
	if cerr := t.commit(); cerr != nil {
		debug.Log("Table.finishLoad: derivation failed: %v", cerr)
	}
}

// cancelStaleLoads cancels the context of every load whose token no longer
// matches its row.
func (t *Table[T]) cancelStaleLoads() {
	for k, h := range t.loads {
		if !t.expansion.Current(h.tok) {
			debug.Log("Table.cancelStaleLoads: cancelling row %q", k)
			h.cancel()
			delete(t.loads, k)
		}
	}
}

// Loading returns the keys with a child load in flight.
func (t *Table[T]) Loading() []Key {
	var keys []Key
	for _, k := range t.expansion.Keys() {
		if t.expansion.Status(k) == LoadLoading {
			keys = append(keys, k)
		}
	}
	return keys
}
