package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/models"
)

// Stats exported for testing purposes
type Stats struct {
	Codes databases.InviteCodeDatabase
	RSVPs databases.RSVPDatabase
}

// StatsHandler computes the attendance aggregate by scanning both
// collections and folding in Go. The pool is a few hundred documents at
// most, so a pipeline buys nothing here.
func (s Stats) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	codes, err := s.Codes.Find(ctx, bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get invitation codes", http.StatusInternalServerError, w, err)
		return
	}
	rsvps, err := s.RSVPs.Find(ctx, bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get rsvps", http.StatusInternalServerError, w, err)
		return
	}

	resp := buildStats(codes, rsvps)
	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func buildStats(codes []models.InvitationCode, rsvps []models.RSVP) models.StatsResponse {
	var resp models.StatsResponse
	resp.Breakdown = []models.CodeBreakdown{}

	perCode := make(map[string]*models.CodeBreakdown, len(codes))
	for _, c := range codes {
		resp.Codes.Total++
		if c.IsActive {
			resp.Codes.Active++
		} else {
			resp.Codes.Inactive++
		}
		resp.Codes.MaxGuests += c.MaxGuests
		resp.Codes.UsedGuests += c.UsedGuests
		perCode[c.Code] = &models.CodeBreakdown{
			Code:       c.Code,
			AssignedTo: c.AssignedTo,
			MaxGuests:  c.MaxGuests,
		}
	}

	for _, rv := range rsvps {
		resp.RSVPs.Total++
		if rv.Attending() {
			resp.RSVPs.Confirmed++
			resp.RSVPs.ConfirmedGuests += rv.GuestsCount
		} else {
			resp.RSVPs.Declined++
		}
		// RSVPs may outlive their code when an operator deletes one
		bd, ok := perCode[rv.Code]
		if !ok {
			bd = &models.CodeBreakdown{Code: rv.Code}
			perCode[rv.Code] = bd
		}
		bd.Responses++
		if rv.Attending() {
			bd.ConfirmedGuests += rv.GuestsCount
		}
	}

	for _, c := range codes {
		resp.Breakdown = append(resp.Breakdown, *perCode[c.Code])
		delete(perCode, c.Code)
	}
	for _, bd := range perCode {
		resp.Breakdown = append(resp.Breakdown, *bd)
	}
	return resp
}
