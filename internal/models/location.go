package models

// The location hierarchy is a fixed three-level tree loaded once from the
// backend. Selecting a province re-derives the district option set from that
// province's children, and the sector set likewise depends on the selected
// district.

// Sector is the lowest level of the location hierarchy.
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// District groups sectors under a province.
type District struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Sectors []Sector `json:"sectors"`
}

// Province is the top level of the location hierarchy.
type Province struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}

// DistrictByID finds a district among the province's children.
func (p *Province) DistrictByID(id string) *District {
	for i := range p.Districts {
		if p.Districts[i].ID == id {
			return &p.Districts[i]
		}
	}
	return nil
}
