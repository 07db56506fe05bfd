package models

// Incident is the payload for filing a ticket with the tracker.
type Incident struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Reporter    string `json:"reporter"`
}

// TicketResponse is the relevant subset of the tracker's create response.
type TicketResponse struct {
	Key  string `json:"key"`
	ID   string `json:"id"`
	Self string `json:"self"`
}
