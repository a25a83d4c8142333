package models

// Draft is the in-progress, uncommitted state of one add-place flow. A draft
// is owned by exactly one session and is reset to its zero value on commit or
// cancel.
type Draft struct {
	Name         string      `json:"name"`
	AddressText  string      `json:"address_text"`
	Chosen       *Coordinate `json:"chosen,omitempty"`
	Attachments  []PhotoRef  `json:"attachments"`
	PickingOnMap bool        `json:"picking_on_map"`
}
