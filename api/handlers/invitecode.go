package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// InviteCode exported for testing purposes
type InviteCode struct {
	DB       databases.InviteCodeDatabase
	Ledger   *invites.Ledger
	Recorder *invites.Recorder
	Secret   string
}

type validateCodeRequest struct {
	Code string `json:"code"`
	Mode string `json:"mode"`
}

// ValidateInviteCodeHandler is the public redemption endpoint. On success it
// returns the code snapshot, a signed access token for the session, and a
// hint that the RSVP form should be skipped.
func (i InviteCode) ValidateInviteCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req validateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	mode := invites.ModeAccess
	if req.Mode == "rsvp" {
		mode = invites.ModeRSVP
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	snap, err := i.Ledger.Validate(ctx, req.Code, mode)
	if err != nil {
		inviteErrorStatus(w, err)
		return
	}

	token, err := api.NewAccessToken(snap, i.Secret)
	if err != nil {
		config.ErrorStatus("failed to sign access token", http.StatusInternalServerError, w, err)
		return
	}

	resp := models.ValidateCodeResponse{
		Code:             snap,
		AccessToken:      token,
		AlreadySubmitted: snap.RemainingGuests == 0 || i.Recorder.CheckExisting(ctx, snap.Code),
	}
	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type createCodeRequest struct {
	Code       string     `json:"code"`
	AssignedTo string     `json:"assignedTo"`
	MaxGuests  int        `json:"maxGuests"`
	IsActive   *bool      `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// CreateInviteCodeHandler creates a new invitation code with an
// operator-chosen or generated code string, uniqueness-checked before insert
func (i InviteCode) CreateInviteCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req createCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.MaxGuests < 1 {
		config.ErrorStatus("maxGuests must be at least 1", http.StatusBadRequest, w, nil)
		return
	}

	codeStr := strings.ToUpper(strings.TrimSpace(req.Code))
	if codeStr == "" {
		codeStr = generateCode()
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := i.DB.CountDocuments(ctx, bson.M{"code": codeStr})
	if err != nil {
		config.ErrorStatus("failed to check code uniqueness", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("code already exists", http.StatusConflict, w, nil)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := time.Now().UTC()
	code := models.InvitationCode{
		Code:       codeStr,
		AssignedTo: strings.TrimSpace(req.AssignedTo),
		MaxGuests:  req.MaxGuests,
		UsedGuests: 0,
		IsActive:   active,
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res, err := i.DB.InsertOne(ctx, code)
	if err != nil {
		config.ErrorStatus("failed to create invitation code", http.StatusInternalServerError, w, err)
		return
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		code.ID = oid
	}

	b, err := json.Marshal(code)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// InviteCodesHandler returns all invitation codes, paginated
func (i InviteCode) InviteCodesHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	dbResp, err := i.DB.Find(context.TODO(), bson.D{}, &options.FindOptions{Limit: &limit64, Skip: &skip64})
	if err != nil {
		config.ErrorStatus("failed to get invitation codes", http.StatusNotFound, w, err)
		return
	}
	// the admin table expects a data array even when the pool is empty
	if len(dbResp) == 0 {
		dbResp = []models.InvitationCode{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// InviteCodeByIDHandler returns an invitation code by ID
func (i InviteCode) InviteCodeByIDHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["code_id"]

	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := i.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get invitation code by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type updateCodeRequest struct {
	AssignedTo *string    `json:"assignedTo"`
	MaxGuests  *int       `json:"maxGuests"`
	IsActive   *bool      `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// UpdateInviteCodeHandler updates the operator-editable fields of a code.
// The code string and the used counter are never touched here; the counter
// belongs to the recorder's atomic path.
func (i InviteCode) UpdateInviteCodeHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["code_id"]

	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.AssignedTo != nil {
		set["assignedTo"] = strings.TrimSpace(*req.AssignedTo)
	}
	if req.MaxGuests != nil {
		if *req.MaxGuests < 1 {
			config.ErrorStatus("maxGuests must be at least 1", http.StatusBadRequest, w, nil)
			return
		}
		set["maxGuests"] = *req.MaxGuests
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.ExpiresAt != nil {
		set["expiresAt"] = *req.ExpiresAt
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = i.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update invitation code", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "invitation code updated successfully"}`))
}

// DeleteInviteCodeHandler deletes an invitation code. Existing RSVP records
// for the code are left in place.
func (i InviteCode) DeleteInviteCodeHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["code_id"]

	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := i.DB.FindOne(ctx, bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to get invitation code by ID", http.StatusNotFound, w, err)
		return
	}

	err = i.DB.DeleteOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to delete invitation code", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "invitation code deleted successfully"}`))
}

// ToggleInviteCodeHandler flips the isActive flag of a code
func (i InviteCode) ToggleInviteCodeHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["code_id"]

	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	code, err := i.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get invitation code by ID", http.StatusNotFound, w, err)
		return
	}

	err = i.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": bson.M{
		"isActive":  !code.IsActive,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		config.ErrorStatus("failed to toggle invitation code", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]bool{"isActive": !code.IsActive})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// generateCode mints an 8-character uppercase code for operators who did not
// choose one themselves.
func generateCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
