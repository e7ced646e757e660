// Package docs Wedding RSVP API.
//
// Documentation of the Wedding RSVP API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/miralles/wedding-rsvp-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/invitation/validate invitation validateInvitationCode
// Validates an invitation code and returns an access token for the session.
// responses:
//   200: validateCodeResponse

// The redeemed code snapshot, the signed access token, and whether an RSVP
// was already submitted for it.
// swagger:response validateCodeResponse
type validateCodeResponseWrapper struct {
	// in:body
	Body models.ValidateCodeResponse
}

// swagger:route POST /api/v1/rsvp rsvp submitRSVP
// Records an RSVP for the code carried in the bearer token.
// responses:
//   201: rsvpResponse

// The recorded RSVP document.
// swagger:response rsvpResponse
type rsvpResponseWrapper struct {
	// in:body
	Body models.RSVP
}

// swagger:route GET /api/v1/stats admin attendanceStats
// Returns the attendance aggregate across all codes and responses.
// responses:
//   200: statsResponse

// Pool totals, response totals, and the per-code breakdown.
// swagger:response statsResponse
type statsResponseWrapper struct {
	// in:body
	Body models.StatsResponse
}
