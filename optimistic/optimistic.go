// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInFlight         = errors.New("update already in flight")
	ErrNotAuthenticated = errors.New("sign in required")
	ErrUnknownCard      = errors.New("card not on board")
	ErrUnknownColumn    = errors.New("unknown column")
)

// inflight tracks which keys have an outstanding server call.
// One outstanding call per key; unrelated keys proceed concurrently.
type inflight struct {
	mu   sync.Mutex
	keys map[string]bool
}

// begin reports false when the key is already busy.
func (f *inflight) begin(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = make(map[string]bool)
	}
	if f.keys[key] {
		return false
	}
	f.keys[key] = true
	return true
}

func (f *inflight) end(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
}

func (f *inflight) active(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key]
}

// Filter holds one piece of view state (a date range, a category
// selection) whose change triggers a data refetch. The new value is
// visible immediately; a failed refetch restores the previous value.
type Filter[T any] struct {
	mu      sync.Mutex
	value   T
	busy    bool
	refresh func(ctx context.Context, value T) error
}

// NewFilter creates a filter with the given initial value. refresh is
// called with the candidate value after every Set.
func NewFilter[T any](initial T, refresh func(ctx context.Context, value T) error) *Filter[T] {
	return &Filter[T]{value: initial, refresh: refresh}
}

func (f *Filter[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set applies value optimistically and runs the refetch. While a
// refetch is outstanding further Sets return ErrInFlight.
func (f *Filter[T]) Set(ctx context.Context, value T) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrInFlight
	}
	f.busy = true
	prev := f.value
	f.value = value
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if err := f.refresh(ctx, value); err != nil {
		f.mu.Lock()
		f.value = prev
		f.mu.Unlock()
		return err
	}
	return nil
}
