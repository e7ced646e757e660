package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

// State is the visitor-facing gate state. AlreadySubmitted is absorbing for
// the session: content stays unlocked but the form is replaced by a static
// message.
type State int

const (
	StateLocked State = iota
	StateCodeEntry
	StateUnlocked
	StateRSVPPending
	StateRSVPDone
	StateAlreadySubmitted
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateCodeEntry:
		return "code-entry"
	case StateUnlocked:
		return "unlocked"
	case StateRSVPPending:
		return "rsvp-pending"
	case StateRSVPDone:
		return "rsvp-done"
	case StateAlreadySubmitted:
		return "already-submitted"
	}
	return "unknown"
}

// Gate drives the per-session state machine that decides what the invitation
// page shows: nothing, the code prompt, the unlocked site with the RSVP form,
// or a terminal message. The held code is explicit session state, never
// ambient.
type Gate struct {
	ledger   *invites.Ledger
	recorder *invites.Recorder
	store    Store

	state State
	code  *models.CodeSnapshot
}

// NewGate returns a locked gate over the given session store.
func NewGate(ledger *invites.Ledger, recorder *invites.Recorder, store Store) *Gate {
	return &Gate{ledger: ledger, recorder: recorder, store: store, state: StateLocked}
}

// State returns the current gate state.
func (g *Gate) State() State { return g.state }

// Code returns the snapshot of the currently held code, or nil.
func (g *Gate) Code() *models.CodeSnapshot { return g.code }

// Begin moves a locked gate to the code prompt.
func (g *Gate) Begin() {
	if g.state == StateLocked {
		g.state = StateCodeEntry
	}
}

// Redeem validates a raw code in access mode. On success the site unlocks;
// if the code is spent, a submission already exists for it, or this session
// already submitted, the gate lands in AlreadySubmitted instead. On failure
// the state is unchanged and the error carries the user-facing reason.
func (g *Gate) Redeem(ctx context.Context, raw string) error {
	snap, err := g.ledger.Validate(ctx, raw, invites.ModeAccess)
	if err != nil {
		return err
	}

	g.code = snap
	if blob, err := json.Marshal(snap); err == nil {
		g.store.Set(AccessCodeKey, string(blob))
	}

	if g.submitted() || snap.RemainingGuests == 0 || g.recorder.CheckExisting(ctx, snap.Code) {
		g.state = StateAlreadySubmitted
		return nil
	}
	g.state = StateUnlocked
	return nil
}

// Submit runs the RSVP submission for the held code. The gate passes through
// RSVPPending while the write is in flight; a duplicate routes to the
// terminal state, any other failure returns to Unlocked so the visitor can
// correct and resubmit.
func (g *Gate) Submit(ctx context.Context, form models.RSVPForm) error {
	if g.state != StateUnlocked {
		return invites.ErrNoActiveCode
	}
	g.state = StateRSVPPending

	_, err := g.recorder.Submit(ctx, g.code, form)
	if err != nil {
		if errors.Is(err, invites.ErrDuplicateSubmission) {
			g.state = StateAlreadySubmitted
			return err
		}
		g.state = StateUnlocked
		return err
	}

	// a code is single-use per session
	g.code = nil
	g.store.Delete(AccessCodeKey)
	g.store.Set(SubmittedKey, "1")
	g.state = StateRSVPDone
	return nil
}

// ChangeCode drops the held code and returns to the prompt. The visitor must
// re-validate before seeing the site again.
func (g *Gate) ChangeCode() {
	g.code = nil
	g.store.Delete(AccessCodeKey)
	g.state = StateCodeEntry
}

// Resume re-derives the gate state on page reload. A stored snapshot is
// re-validated against the store rather than trusted blindly; if it no
// longer passes, the gate locks again.
func (g *Gate) Resume(ctx context.Context) error {
	blob, ok := g.store.Get(AccessCodeKey)
	if !ok {
		if _, submitted := g.store.Get(SubmittedKey); submitted {
			g.state = StateAlreadySubmitted
		} else {
			g.state = StateLocked
		}
		return nil
	}

	var stored models.CodeSnapshot
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		zap.S().Warnw("discarding unreadable session code blob", "error", err)
		g.store.Delete(AccessCodeKey)
		g.state = StateLocked
		return nil
	}

	if err := g.Redeem(ctx, stored.Code); err != nil {
		g.store.Delete(AccessCodeKey)
		g.code = nil
		g.state = StateLocked
		return err
	}
	return nil
}

func (g *Gate) submitted() bool {
	_, ok := g.store.Get(SubmittedKey)
	return ok
}
