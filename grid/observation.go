package grid

// Observation is what the agent sees after a reset or a step.
// Image is indexed [x][y] over the agent-relative window, each cell
// encoded as (kind, color, state).
type Observation struct {
	Image     [ViewSize][ViewSize][3]uint8 `json:"image"`
	Direction Direction                    `json:"direction"`
	Mission   string                       `json:"mission"`
}

// Cell decodes the window cell at (x, y)
func (o Observation) Cell(x, y int) Cell {
	return Decode(o.Image[x][y])
}

// Object returns the object at (x, y) of the window, if there is one
func (o Observation) Object(x, y int) (Object, bool) {
	return o.Cell(x, y).Object()
}

// Equal compares the full observation, mission included
func (o Observation) Equal(other Observation) bool {
	return o.Image == other.Image && o.Direction == other.Direction && o.Mission == other.Mission
}
