// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"context"
	"sync"
	"time"
)

// Card is one roadmap item on the board.
type Card struct {
	ID    string
	Title string
}

// MoveFunc persists a cross-column move on the server.
type MoveFunc func(ctx context.Context, cardID, toColumn string) error

// DefaultSettleDelay is how long a cross-column move waits before
// issuing the server call, so the drop animation finishes before the
// underlying list is mutated. Drag libraries warn when the list
// changes mid-gesture.
const DefaultSettleDelay = 150 * time.Millisecond

// Board is the Kanban model behind the roadmap view: one column per
// status, cards moved by explicit drag. Cross-column moves are applied
// locally first and rolled back to the full pre-drag snapshot if the
// server rejects them. Same-column reorders never reach the server.
//
// A card whose own move is outstanding cannot be moved again until it
// resolves; every other card stays movable.
type Board struct {
	mu      sync.Mutex
	order   []string
	columns map[string][]Card

	pending inflight
	settle  time.Duration
	move    MoveFunc
}

// NewBoard creates a board with the given columns, in display order.
func NewBoard(columns []string, settle time.Duration, move MoveFunc) *Board {
	b := &Board{
		order:   append([]string(nil), columns...),
		columns: make(map[string][]Card, len(columns)),
		settle:  settle,
		move:    move,
	}
	for _, col := range columns {
		b.columns[col] = []Card{}
	}
	return b
}

// Load replaces a column's cards, typically from the roadmap response.
func (b *Board) Load(column string, cards []Card) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.columns[column]; !ok {
		return ErrUnknownColumn
	}
	b.columns[column] = append([]Card(nil), cards...)
	return nil
}

// Columns returns the column names in display order.
func (b *Board) Columns() []string {
	return append([]string(nil), b.order...)
}

// Column returns a copy of the cards in a column.
func (b *Board) Column(column string) ([]Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cards, ok := b.columns[column]
	if !ok {
		return nil, ErrUnknownColumn
	}
	return append([]Card(nil), cards...), nil
}

// Updating reports whether a move for this card is outstanding; the
// view uses it to disable dragging that one card.
func (b *Board) Updating(cardID string) bool {
	return b.pending.active(cardID)
}

// MoveCard drops a card at index in the target column.
//
// Same-column drops reorder locally and return immediately without a
// server call. Cross-column drops apply locally, wait the settle
// delay, then persist; a rejected persist restores every column to its
// pre-drag state.
func (b *Board) MoveCard(ctx context.Context, cardID, toColumn string, index int) error {
	b.mu.Lock()

	if _, ok := b.columns[toColumn]; !ok {
		b.mu.Unlock()
		return ErrUnknownColumn
	}

	fromColumn, card, found := b.locateLocked(cardID)
	if !found {
		b.mu.Unlock()
		return ErrUnknownCard
	}

	if fromColumn == toColumn {
		// Presentation-only: not persisted
		b.removeLocked(fromColumn, cardID)
		b.insertLocked(toColumn, card, index)
		b.mu.Unlock()
		return nil
	}

	if !b.pending.begin(cardID) {
		b.mu.Unlock()
		return ErrInFlight
	}

	snapshot := b.snapshotLocked()
	b.removeLocked(fromColumn, cardID)
	b.insertLocked(toColumn, card, index)
	b.mu.Unlock()

	defer b.pending.end(cardID)

	if b.settle > 0 {
		timer := time.NewTimer(b.settle)
		select {
		case <-ctx.Done():
			timer.Stop()
			b.restore(snapshot)
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := b.move(ctx, cardID, toColumn); err != nil {
		b.restore(snapshot)
		return err
	}
	return nil
}

// locateLocked finds a card and its column. Caller holds b.mu.
func (b *Board) locateLocked(cardID string) (string, Card, bool) {
	for _, col := range b.order {
		for _, card := range b.columns[col] {
			if card.ID == cardID {
				return col, card, true
			}
		}
	}
	return "", Card{}, false
}

func (b *Board) removeLocked(column, cardID string) {
	cards := b.columns[column]
	for i, card := range cards {
		if card.ID == cardID {
			b.columns[column] = append(cards[:i:i], cards[i+1:]...)
			return
		}
	}
}

func (b *Board) insertLocked(column string, card Card, index int) {
	cards := b.columns[column]
	if index < 0 || index > len(cards) {
		index = len(cards)
	}
	cards = append(cards, Card{})
	copy(cards[index+1:], cards[index:])
	cards[index] = card
	b.columns[column] = cards
}

func (b *Board) snapshotLocked() map[string][]Card {
	snapshot := make(map[string][]Card, len(b.columns))
	for col, cards := range b.columns {
		snapshot[col] = append([]Card(nil), cards...)
	}
	return snapshot
}

func (b *Board) restore(snapshot map[string][]Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.columns = snapshot
}
