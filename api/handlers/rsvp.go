package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

// RSVP exported for testing purposes
type RSVP struct {
	Recorder *invites.Recorder
	RSVPs    databases.RSVPDatabase
	Hub      *Hub
	Conf     *config.Config
	Secret   string
}

// SubmitRSVPHandler records an RSVP for the invitation code carried in the
// bearer token minted at code validation. The token's snapshot is only a
// claim of which code the session redeemed; the recorder re-verifies the
// live document before committing anything.
func (rv RSVP) SubmitRSVPHandler(w http.ResponseWriter, r *http.Request) {
	snap := rv.tokenSnapshot(r)
	if snap == nil {
		inviteErrorStatus(w, invites.ErrNoActiveCode)
		return
	}

	var form models.RSVPForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rsvp, err := rv.Recorder.Submit(ctx, snap, form)
	if err != nil {
		inviteErrorStatus(w, err)
		return
	}

	if rv.Hub != nil {
		rv.Hub.Broadcast(rsvp)
	}
	go sendRSVPConfirmationEmail(rv.Conf, rsvp)

	b, err := json.Marshal(rsvp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// CheckExistingHandler reports whether an RSVP already exists for the
// session's code. Always 200; lookup failures read as "not submitted"
// so the guest is never locked out of the form by a flaky read.
func (rv RSVP) CheckExistingHandler(w http.ResponseWriter, r *http.Request) {
	exists := false
	if snap := rv.tokenSnapshot(r); snap != nil {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()
		exists = rv.Recorder.CheckExisting(ctx, snap.Code)
	}
	b, _ := json.Marshal(map[string]bool{"exists": exists})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RSVPsHandler returns all recorded RSVPs, paginated
func (rv RSVP) RSVPsHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	dbResp, err := rv.RSVPs.Find(context.TODO(), bson.D{}, &options.FindOptions{Limit: &limit64, Skip: &skip64})
	if err != nil {
		config.ErrorStatus("failed to get rsvps", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.RSVP{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteRSVPHandler removes an RSVP and hands back its reserved guest slots
func (rv RSVP) DeleteRSVPHandler(w http.ResponseWriter, r *http.Request) {
	rsvpID := mux.Vars(r)["rsvp_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := rv.Recorder.Delete(ctx, rsvpID); err != nil {
		inviteErrorStatus(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "rsvp deleted successfully"}`))
}

// tokenSnapshot extracts and verifies the access token from the
// Authorization header. Returns nil when there is no usable token.
func (rv RSVP) tokenSnapshot(r *http.Request) *models.CodeSnapshot {
	header := r.Header.Get("Authorization")
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	if raw == "" {
		return nil
	}
	snap, err := api.ParseAccessToken(raw, rv.Secret)
	if err != nil {
		zap.S().Debugw("rejected access token", "error", err)
		return nil
	}
	return snap
}
