// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package optimistic implements the client-side state model for
interactions that must feel instant: vote toggles, roadmap drags, and
analytics filter changes.

Every primitive here follows the same contract:

 1. Apply the change locally before the server call
 2. One outstanding call per key; a second attempt returns ErrInFlight
 3. On server rejection, restore the exact pre-change snapshot
 4. On success, reconcile with the server's canonical answer

# Vote Toggles

VoteController wraps a commit function (POST the toggle) and a fetch
function (GET canonical counts):

	c := optimistic.NewVoteController(commit, fetch)
	c.SetAuthenticated(true)
	c.Load("fr-1", seed)
	err := c.ToggleUpvote(ctx, "fr-1")

Unauthenticated toggles fail before any state changes. After a
successful commit the canonical counts overwrite the local guess, so a
concurrent vote by someone else is corrected in the same action.

# Roadmap Board

Board models the Kanban view: one column per status, cards moved by
drag. Cross-column moves snapshot every column, apply locally, wait a
settle delay (so drop animations finish), then persist; rejection
restores the full snapshot. Same-column reorders never reach the
server.

	b := optimistic.NewBoard(columns, optimistic.DefaultSettleDelay, move)
	err := b.MoveCard(ctx, cardID, "planned", 0)

# Filters

Filter is a generic value whose change triggers a refetch:

	f := optimistic.NewFilter("30d", refresh)
	err := f.Set(ctx, "7d")

The candidate value shows immediately; a failed refetch restores the
previous one.
*/
package optimistic
