package arena

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCellSize is the edge length of a grid cell in pixels
const DefaultCellSize = 50.0

// Cell represents a spatial partition cell containing entities
type Cell struct {
	// Entities in this cell (storage is reused between ticks)
	Entities []*Entity

	// Current count of entities
	Count int
}

// NewCell creates a new cell with preallocated entity storage
func NewCell(initialCapacity int) *Cell {
	return &Cell{
		Entities: make([]*Entity, 0, initialCapacity),
	}
}

// AddEntity adds an entity to this cell
func (c *Cell) AddEntity(entity *Entity) {
	if c.Count < len(c.Entities) {
		c.Entities[c.Count] = entity
	} else {
		c.Entities = append(c.Entities, entity)
	}
	c.Count++
}

// GetEntities returns the entities in this cell
func (c *Cell) GetEntities() []*Entity {
	return c.Entities[:c.Count]
}

// Clear removes all entities from the cell but keeps capacity
func (c *Cell) Clear() {
	for i := 0; i < c.Count; i++ {
		c.Entities[i] = nil
	}
	c.Count = 0
}

// Grid is a uniform partition of the arena's bounding square.
// Every entity is stored only in the cell holding its centre.
type Grid struct {
	cells    []*Cell
	cols     int
	cellSize float64
	min      mgl64.Vec2
}

// NewGrid preallocates a grid covering the wall's bounding square
func NewGrid(w Wall, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	cols := int(math.Ceil(2*w.Radius/cellSize)) + 1
	cells := make([]*Cell, cols*cols)
	for i := range cells {
		cells[i] = NewCell(16)
	}
	return &Grid{
		cells:    cells,
		cols:     cols,
		cellSize: cellSize,
		min:      w.Center.Sub(mgl64.Vec2{w.Radius, w.Radius}),
	}
}

// Cols returns the number of cells along each axis
func (g *Grid) Cols() int { return g.cols }

// CellSize returns the cell edge length
func (g *Grid) CellSize() float64 { return g.cellSize }

// Origin returns the top-left corner of the grid
func (g *Grid) Origin() mgl64.Vec2 { return g.min }

// WorldToCell converts arena coordinates to cell coordinates, clamped to the grid
func (g *Grid) WorldToCell(p mgl64.Vec2) (int, int) {
	cx := int(math.Floor((p.X() - g.min.X()) / g.cellSize))
	cy := int(math.Floor((p.Y() - g.min.Y()) / g.cellSize))
	return clampInt(cx, 0, g.cols-1), clampInt(cy, 0, g.cols-1)
}

// GetCell returns the cell at the given cell coordinates
func (g *Grid) GetCell(cx, cy int) *Cell {
	if cx < 0 || cx >= g.cols || cy < 0 || cy >= g.cols {
		return nil
	}
	return g.cells[cy*g.cols+cx]
}

// Reset empties every cell
func (g *Grid) Reset() {
	for _, c := range g.cells {
		c.Clear()
	}
}

// Insert files the entity under the cell holding its centre
func (g *Grid) Insert(e *Entity) {
	cx, cy := g.WorldToCell(e.Pos)
	g.GetCell(cx, cy).AddEntity(e)
}

// Rebuild replaces the grid contents with the given entities
func (g *Grid) Rebuild(entities []*Entity) {
	g.Reset()
	for _, e := range entities {
		g.Insert(e)
	}
}

// Near appends to dst every entity whose centre may lie within radius of p
// and returns the extended slice. Callers run the exact test themselves.
func (g *Grid) Near(dst []*Entity, p mgl64.Vec2, radius float64) []*Entity {
	minX, minY := g.WorldToCell(p.Sub(mgl64.Vec2{radius, radius}))
	maxX, maxY := g.WorldToCell(p.Add(mgl64.Vec2{radius, radius}))
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			dst = append(dst, g.GetCell(cx, cy).GetEntities()...)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
