package game

import (
	"errors"
	"fmt"
)

// Tile is the kind of one map cell.
type Tile uint8

const (
	TileBuilding Tile = iota
	TileSidewalk
	TileRoad
	TileCrossing
	TileStand
	TileSpawn
	numTiles
)

var tileNames = [numTiles]string{"building", "sidewalk", "road", "crossing", "stand", "spawn"}

func (t Tile) String() string {
	if t < numTiles {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// Walkable reports whether customers may step on the tile.
func (t Tile) Walkable() bool {
	switch t {
	case TileSidewalk, TileCrossing, TileStand, TileSpawn:
		return true
	}
	return false
}

// Map characters. '?' cells are generated.
const generatedCell = '?'

var tileChars = map[rune]Tile{
	'#': TileBuilding,
	'.': TileSidewalk,
	'=': TileRoad,
	'+': TileCrossing,
	'L': TileStand,
	'S': TileSpawn,
}

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is a parsed level map, row-major.
type Grid struct {
	W, H   int
	tiles  []Tile
	stands []Cell
	spawns []Cell
}

// ParseGrid builds a grid from map rows. All rows must have the same width
// and the map needs at least one stand and one spawn.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New("map is empty")
	}
	w := len([]rune(rows[0]))
	g := &Grid{W: w, H: len(rows), tiles: make([]Tile, w*len(rows))}
	var pending []Cell

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != w {
			return nil, fmt.Errorf("map row %d is %d wide, want %d", y, len(runes), w)
		}
		for x, r := range runes {
			if r == generatedCell {
				pending = append(pending, Cell{x, y})
				continue
			}
			t, ok := tileChars[r]
			if !ok {
				return nil, fmt.Errorf("map row %d col %d: unknown tile %q", y, x, r)
			}
			g.set(x, y, t)
			switch t {
			case TileStand:
				g.stands = append(g.stands, Cell{x, y})
			case TileSpawn:
				g.spawns = append(g.spawns, Cell{x, y})
			}
		}
	}
	if len(g.stands) == 0 {
		return nil, errors.New("map has no stand (L)")
	}
	if len(g.spawns) == 0 {
		return nil, errors.New("map has no spawn (S)")
	}
	g.generate(pending)
	return g, nil
}

// generate turns pending cells into sidewalk, column by column, unless that
// would close a 2x2 square of walkable cells. Pending cells start as
// buildings.
func (g *Grid) generate(pending []Cell) {
	todo := make(map[Cell]bool, len(pending))
	for _, c := range pending {
		todo[c] = true
	}
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if !todo[Cell{x, y}] {
				continue
			}
			if g.closesSquare(x, y) {
				continue
			}
			g.set(x, y, TileSidewalk)
		}
	}
}

// closesSquare reports whether making (x, y) walkable completes a 2x2 block
// of walkable cells in any of the four corners around it.
func (g *Grid) closesSquare(x, y int) bool {
	for _, dx := range [2]int{-1, 1} {
		for _, dy := range [2]int{-1, 1} {
			if g.Walkable(x+dx, y) && g.Walkable(x, y+dy) && g.Walkable(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

func (g *Grid) set(x, y int, t Tile) {
	g.tiles[y*g.W+x] = t
}

// In reports whether (x, y) is on the map.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the tile at (x, y). Off-map cells are buildings.
func (g *Grid) At(x, y int) Tile {
	if !g.In(x, y) {
		return TileBuilding
	}
	return g.tiles[y*g.W+x]
}

// Walkable reports whether (x, y) is on the map and walkable.
func (g *Grid) Walkable(x, y int) bool {
	return g.In(x, y) && g.At(x, y).Walkable()
}

// Stands returns the stand cells in reading order.
func (g *Grid) Stands() []Cell { return g.stands }

// Spawns returns the spawn cells in reading order.
func (g *Grid) Spawns() []Cell { return g.spawns }

var steps = [4]Cell{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Path returns the shortest 4-connected walkable path from one cell to
// another, both ends included, or nil if there is none.
func (g *Grid) Path(from, to Cell) []Cell {
	if !g.Walkable(from.X, from.Y) || !g.Walkable(to.X, to.Y) {
		return nil
	}
	if from == to {
		return []Cell{from}
	}

	prev := make([]int, g.W*g.H)
	for i := range prev {
		prev[i] = -1
	}
	start, goal := from.Y*g.W+from.X, to.Y*g.W+to.X
	prev[start] = start
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		cx, cy := cur%g.W, cur/g.W
		for _, s := range steps {
			nx, ny := cx+s.X, cy+s.Y
			if !g.Walkable(nx, ny) {
				continue
			}
			n := ny*g.W + nx
			if prev[n] != -1 {
				continue
			}
			prev[n] = cur
			queue = append(queue, n)
		}
	}
	if prev[goal] == -1 {
		return nil
	}

	var path []Cell
	for i := goal; ; i = prev[i] {
		path = append(path, Cell{i % g.W, i / g.W})
		if i == start {
			break
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
