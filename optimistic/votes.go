// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"context"
	"fmt"
	"sync"
)

// VoteState is the client-visible vote aggregate for one feature
// request. UserVote is "upvote" or empty. The invariant after every
// reconciliation is Total = Upvotes - Downvotes, matching the server.
type VoteState struct {
	Upvotes   int
	Downvotes int
	Total     int
	UserVote  string
}

// CommitVoteFunc sends the toggle to the server.
type CommitVoteFunc func(ctx context.Context, requestID string) error

// FetchVoteFunc retrieves the canonical aggregate for reconciliation.
type FetchVoteFunc func(ctx context.Context, requestID string) (VoteState, error)

// VoteController applies vote toggles optimistically and reconciles
// with the server. The sequence per toggle:
//
//  1. refuse unauthenticated callers before touching state
//  2. mutate the local aggregate assuming success
//  3. send the toggle; on failure restore the pre-toggle state
//  4. on success refetch the canonical counts and overwrite local
//     state, so any wrong guess is corrected in the same action
//
// Step 3's rollback is deliberate: showing an error while leaving the
// optimistic count on screen would let local and server state diverge
// until some later reload.
type VoteController struct {
	mu            sync.Mutex
	items         map[string]VoteState
	authenticated bool
	onReconcile   func(requestID string, state VoteState)

	pending inflight
	commit  CommitVoteFunc
	fetch   FetchVoteFunc
}

func NewVoteController(commit CommitVoteFunc, fetch FetchVoteFunc) *VoteController {
	return &VoteController{
		items:  make(map[string]VoteState),
		commit: commit,
		fetch:  fetch,
	}
}

// SetAuthenticated records whether a user session is present.
func (c *VoteController) SetAuthenticated(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = v
}

// Load seeds the local aggregate for a feature request, typically from
// the initial list response.
func (c *VoteController) Load(requestID string, state VoteState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[requestID] = state
}

// State returns the current local aggregate.
func (c *VoteController) State(requestID string) (VoteState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.items[requestID]
	return state, ok
}

// Voting reports whether a toggle for this request is outstanding.
func (c *VoteController) Voting(requestID string) bool {
	return c.pending.active(requestID)
}

// OnReconcile registers a callback invoked with the canonical state
// after each successful toggle, for parent components.
func (c *VoteController) OnReconcile(fn func(requestID string, state VoteState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReconcile = fn
}

// ToggleUpvote flips the caller's vote on a feature request.
// A second toggle while one is outstanding returns ErrInFlight;
// toggles on other requests are unaffected.
func (c *VoteController) ToggleUpvote(ctx context.Context, requestID string) error {
	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	snapshot, ok := c.items[requestID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("unknown feature request %q", requestID)
	}
	c.mu.Unlock()

	if !c.pending.begin(requestID) {
		return ErrInFlight
	}
	defer c.pending.end(requestID)

	c.mu.Lock()
	c.items[requestID] = toggled(snapshot)
	c.mu.Unlock()

	if err := c.commit(ctx, requestID); err != nil {
		c.mu.Lock()
		c.items[requestID] = snapshot
		c.mu.Unlock()
		return err
	}

	canonical, err := c.fetch(ctx, requestID)
	if err != nil {
		// The toggle landed; keep the optimistic guess on screen and
		// let the next fetch correct any drift.
		return fmt.Errorf("reconcile failed: %w", err)
	}

	c.mu.Lock()
	c.items[requestID] = canonical
	callback := c.onReconcile
	c.mu.Unlock()

	if callback != nil {
		callback(requestID, canonical)
	}
	return nil
}

// toggled is the optimistic guess for a vote toggle.
func toggled(s VoteState) VoteState {
	if s.UserVote == "upvote" {
		s.UserVote = ""
		s.Upvotes--
		s.Total--
		return s
	}
	s.UserVote = "upvote"
	s.Upvotes++
	s.Total++
	return s
}
