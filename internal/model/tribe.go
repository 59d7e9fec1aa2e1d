package model

// Tribe is one of the 592 federally recognized Tribal Nations tracked by
// the registry.
type Tribe struct {
	TribeID string   `json:"tribe_id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	States  []string `json:"states"`
	Ecoregion string `json:"ecoregion"`
	BIACode *string `json:"bia_code"`
}

// CongressMember is a senator or representative serving a Tribe's state or
// district.
type CongressMember struct {
	BioguideID string `json:"bioguide_id"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	State      string `json:"state"`
	District   string `json:"district,omitempty"` // "AL" for at-large
}

// CommitteeMembership records one member's seat on one committee.
type CommitteeMembership struct {
	Committee  string `json:"committee"`
	BioguideID string `json:"bioguide_id"`
	Role       string `json:"role,omitempty"`
}

// CongressionalDelegation is the per-Tribe delegation record.
type CongressionalDelegation struct {
	Senators        []CongressMember       `json:"senators"`
	Representatives []CongressMember       `json:"representatives"`
	Committees      []CommitteeMembership  `json:"committees"`
}
