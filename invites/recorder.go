package invites

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/models"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Recorder validates and persists one attendance record per code-holder,
// keeping the code's used-seats counter in step with the records that
// consumed them.
type Recorder struct {
	Codes databases.InviteCodeDatabase
	RSVPs databases.RSVPDatabase
	Txn   databases.ClientHelper
}

// NewRecorder returns a Recorder committing through the given client's
// transactions.
func NewRecorder(codes databases.InviteCodeDatabase, rsvps databases.RSVPDatabase, client databases.ClientHelper) *Recorder {
	return &Recorder{Codes: codes, RSVPs: rsvps, Txn: client}
}

// Submit validates the form against the snapshot and commits the RSVP record
// together with the capacity decrement as one transaction. A unique-index
// violation on the rsvps code field inside the commit is the authoritative
// duplicate signal; the earlier existence check is only the fast path.
func (r *Recorder) Submit(ctx context.Context, snap *models.CodeSnapshot, form models.RSVPForm) (*models.RSVP, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoActiveCode
	}
	if r.CheckExisting(ctx, snap.Code) {
		return nil, ErrDuplicateSubmission
	}

	guests := form.GuestsCount
	if guests < 1 {
		guests = 1
	}
	if guests > snap.RemainingGuests {
		return nil, ErrCapacityExceeded
	}

	attendance := models.AttendanceWillNotAttend
	if form.Attendance == models.FormAttendanceYes {
		attendance = models.AttendanceWillAttend
	}

	codeID, err := primitive.ObjectIDFromHex(snap.ID)
	if err != nil {
		zap.S().Errorw("code snapshot carries a malformed id", "id", snap.ID, "error", err)
		return nil, ErrSubmissionFailed
	}

	rsvp := models.RSVP{
		Code:        snap.Code,
		CodeID:      snap.ID,
		Name:        strings.TrimSpace(form.Name),
		Email:       strings.TrimSpace(form.Email),
		Phone:       strings.TrimSpace(form.Phone),
		Allergies:   strings.TrimSpace(form.Allergies),
		GuestsCount: guests,
		Attendance:  attendance,
		CreatedAt:   time.Now().UTC(),
	}

	err = r.Txn.WithTransaction(ctx, func(tc context.Context) error {
		if _, err := r.RSVPs.InsertOne(tc, rsvp); err != nil {
			return err
		}
		if rsvp.Attending() {
			return r.Codes.IncrementUsed(tc, codeID, guests)
		}
		return nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSubmission
		}
		zap.S().Errorw("failed to commit rsvp", "code", snap.Code, "error", err)
		return nil, ErrSubmissionFailed
	}
	return &rsvp, nil
}

// CheckExisting reports whether an RSVP already exists for the code. Store
// failures degrade to false so the invitation page never blocks on display.
func (r *Recorder) CheckExisting(ctx context.Context, code string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	count, err := r.RSVPs.CountDocuments(ctx, bson.M{"code": normalized})
	if err != nil {
		zap.S().Warnw("failed to check for existing rsvp", "code", normalized, "error", err)
		return false
	}
	return count > 0
}

// Delete removes an RSVP record and, if the record had confirmed attendance,
// returns its seats to the owning code. Both operations commit atomically.
func (r *Recorder) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	rsvp, err := r.RSVPs.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		zap.S().Errorw("failed to load rsvp for deletion", "id", id, "error", err)
		return ErrStoreUnavailable
	}

	var codeID primitive.ObjectID
	if rsvp.Attending() {
		codeID, err = primitive.ObjectIDFromHex(rsvp.CodeID)
		if err != nil {
			zap.S().Errorw("rsvp carries a malformed code id", "id", id, "codeId", rsvp.CodeID)
			return ErrStoreUnavailable
		}
	}

	err = r.Txn.WithTransaction(ctx, func(tc context.Context) error {
		if err := r.RSVPs.DeleteOne(tc, bson.M{"_id": oid}); err != nil {
			return err
		}
		if rsvp.Attending() {
			return r.Codes.IncrementUsed(tc, codeID, -rsvp.GuestsCount)
		}
		return nil
	})
	if err != nil {
		zap.S().Errorw("failed to delete rsvp", "id", id, "error", err)
		return ErrStoreUnavailable
	}
	return nil
}

func validateForm(form models.RSVPForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email := strings.TrimSpace(form.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !emailShape.MatchString(email) {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if form.Attendance != models.FormAttendanceYes && form.Attendance != models.FormAttendanceNo {
		return fmt.Errorf("%w: attendance is required", ErrInvalidInput)
	}
	return nil
}
