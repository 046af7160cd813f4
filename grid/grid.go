package grid

// Grid is a width x height lattice of cells
type Grid struct {
	Width  int
	Height int
	cells  []Cell
}

func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Empty
	}
	return g
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// Get returns the cell at (x, y); positions outside the lattice read as walls
func (g *Grid) Get(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.Width+x]
}

func (g *Grid) Set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.Width+x] = c
}

func (g *Grid) Clear(x, y int) {
	g.Set(x, y, Empty)
}

func (g *Grid) At(p Point) Cell {
	return g.Get(p.X, p.Y)
}

// HorzWall fills row y with walls starting at column x
func (g *Grid) HorzWall(x, y int) {
	for i := x; i < g.Width; i++ {
		g.Set(i, y, Wall)
	}
}

// VertWall fills column x with walls starting at row y
func (g *Grid) VertWall(x, y int) {
	for j := y; j < g.Height; j++ {
		g.Set(x, j, Wall)
	}
}

// WallRect draws the walls around the whole lattice
func (g *Grid) WallRect() {
	g.HorzWall(0, 0)
	g.HorzWall(0, g.Height-1)
	g.VertWall(0, 0)
	g.VertWall(g.Width-1, 0)
}
