package models

// CodeStats aggregates the invitation code pool.
type CodeStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	MaxGuests int `json:"maxGuests"`
	UsedGuests int `json:"usedGuests"`
}

// RSVPStats aggregates the recorded responses.
type RSVPStats struct {
	Total           int `json:"total"`
	Confirmed       int `json:"confirmed"`
	Declined        int `json:"declined"`
	ConfirmedGuests int `json:"confirmedGuests"`
}

// CodeBreakdown is the per-code confirmed-guest line of the stats response.
type CodeBreakdown struct {
	Code            string `json:"code"`
	AssignedTo      string `json:"assignedTo"`
	MaxGuests       int    `json:"maxGuests"`
	ConfirmedGuests int    `json:"confirmedGuests"`
	Responses       int    `json:"responses"`
}

// StatsResponse is the full aggregate computed on demand by scanning both
// collections.
type StatsResponse struct {
	Codes     CodeStats       `json:"codes"`
	RSVPs     RSVPStats       `json:"rsvps"`
	Breakdown []CodeBreakdown `json:"breakdown"`
}

// ValidateCodeResponse is returned to the invitation page after a successful
// code validation.
type ValidateCodeResponse struct {
	Code             *CodeSnapshot `json:"code"`
	AccessToken      string        `json:"accessToken"`
	AlreadySubmitted bool          `json:"alreadySubmitted"`
}
