package invites

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/models"
)

// Mode selects which rules Validate applies on top of the shared checks.
type Mode int

const (
	// ModeAccess unlocks page content. An exhausted code still passes so
	// guests who already confirmed can re-view the site.
	ModeAccess Mode = iota
	// ModeRSVP gates submission and additionally rejects exhausted codes.
	ModeRSVP
)

// Ledger validates invitation codes against the store and owns the atomic
// used-seats counter. All reads are side-effect free.
type Ledger struct {
	Codes databases.InviteCodeDatabase
}

// NewLedger returns a Ledger over the given code collection.
func NewLedger(codes databases.InviteCodeDatabase) *Ledger {
	return &Ledger{Codes: codes}
}

// Validate normalizes and checks a raw code string. On success it returns an
// immutable snapshot of the code at validation time.
func (l *Ledger) Validate(ctx context.Context, raw string, mode Mode) (*models.CodeSnapshot, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return nil, ErrEmptyCode
	}

	code, err := l.Codes.FindOne(ctx, bson.M{"code": normalized})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCodeNotFound
		}
		zap.S().Errorw("failed to look up invitation code", "error", err)
		return nil, ErrStoreUnavailable
	}
	if !code.IsActive {
		return nil, ErrCodeInactive
	}
	if code.Expired(time.Now()) {
		return nil, ErrCodeExpired
	}
	if mode == ModeRSVP && code.RemainingGuests() <= 0 {
		return nil, ErrCodeExhausted
	}
	return code.Snapshot(), nil
}

// IncrementUsed adjusts usedGuests by a signed delta through the store's
// atomic increment primitive. The Recorder keeps creation and deletion deltas
// paired; nothing here clamps the counter.
func (l *Ledger) IncrementUsed(ctx context.Context, id string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return l.Codes.IncrementUsed(ctx, oid, delta)
}
