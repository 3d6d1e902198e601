package catalog

// Target identifies a star, its catalog position and magnitude, and the
// sectors it was observed in. Positions are degrees, J2000.
type Target struct {
	TIC         int64   `json:"tic"`
	RA          float64 `json:"ra"`
	Dec         float64 `json:"dec"`
	EclipticLon float64 `json:"elon"`
	EclipticLat float64 `json:"elat"`
	Tmag        float64 `json:"tmag"`
	Sectors     []int   `json:"sectors"`
}

// ObservedIn reports whether the target was observed in the given sector.
func (t Target) ObservedIn(sector int) bool {
	for _, s := range t.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}
