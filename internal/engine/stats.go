package engine

// Stats are cumulative counters of what placement and removal did.
type Stats struct {
	Attempts               int `json:"attempts"`
	Misses                 int `json:"misses"`
	RejectedSpacing        int `json:"rejected_spacing"`
	RejectedIntercollision int `json:"rejected_intercollision"`
	RejectedSlope          int `json:"rejected_slope"`
	RejectedLayer          int `json:"rejected_layer"`
	RejectedTag            int `json:"rejected_tag"`
	FactoryErrors          int `json:"factory_errors"`
	Placed                 int `json:"placed"`
	Removed                int `json:"removed"`
	Pruned                 int `json:"pruned"` // registered instances that vanished from the world
}

// Rejected is the total number of filtered attempts.
func (s Stats) Rejected() int {
	return s.RejectedSpacing + s.RejectedIntercollision + s.RejectedSlope + s.RejectedLayer + s.RejectedTag
}

func (s *Stats) count(r rejectReason) {
	switch r {
	case rejectSpacing:
		s.RejectedSpacing++
	case rejectIntercollision:
		s.RejectedIntercollision++
	case rejectSlope:
		s.RejectedSlope++
	case rejectLayer:
		s.RejectedLayer++
	case rejectTag:
		s.RejectedTag++
	}
}

// Stats returns a copy of the counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) ResetStats() {
	e.stats = Stats{}
}
