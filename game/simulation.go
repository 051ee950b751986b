package game

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/phanxgames/lemonade"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"go.uber.org/zap"
)

// animFrame is how long each walk frame is shown.
const animFrame = 150 * time.Millisecond

// customerScale is the customer sprite size relative to a tile.
const customerScale = 0.75

// Fallback palette, one pixel per tile kind followed by the walk frames.
var (
	tileColors = [numTiles]color.RGBA{
		TileBuilding: lemonade.RGB(0x554433),
		TileSidewalk: lemonade.RGB(0xBBBBAA),
		TileRoad:     lemonade.RGB(0x333333),
		TileCrossing: lemonade.RGB(0xEEEEEE),
		TileStand:    lemonade.RGB(0xFFDD00),
		TileSpawn:    lemonade.RGB(0x99AA88),
	}
	walkColors = []color.RGBA{lemonade.RGB(0xCC3344), lemonade.RGB(0xAA2233)}
)

type frame struct {
	tex lemonade.ID
	src image.Rectangle
}

// Simulation owns the tile sprites and customer entities of one level.
type Simulation struct {
	g     *lemonade.Graphics
	level *Level
	grid  *Grid
	world donburi.World
	rng   *rand.Rand
	log   *zap.Logger

	textures   []lemonade.ID
	tileFrames [numTiles]frame
	walk       []frame

	tiles    []lemonade.ID // row-major
	lastTile lemonade.ID

	customers  *donburi.Query
	spawnTimer time.Duration
	sales      int
	revenue    int
}

// NewSimulation builds the level's tile sprites. Tile sprites are created
// first so customers always draw above them.
func NewSimulation(g *lemonade.Graphics, level *Level, log *zap.Logger) (*Simulation, error) {
	if log == nil {
		log = zap.NewNop()
	}
	grid, err := ParseGrid(level.Map)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", level.Name, err)
	}
	s := &Simulation{
		g:         g,
		level:     level,
		grid:      grid,
		world:     donburi.NewWorld(),
		rng:       rand.New(rand.NewPCG(level.Seed, level.Seed)),
		log:       log,
		customers: donburi.NewQuery(filter.Contains(BodyComponent, ShopperComponent)),
	}
	if err := s.loadFrames(); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.buildTiles(); err != nil {
		s.Close()
		return nil, err
	}
	SaleEvent.Subscribe(s.world, s.onSale)
	log.Info("level started", zap.String("level", level.Name),
		zap.Int("width", grid.W), zap.Int("height", grid.H))
	return s, nil
}

func (s *Simulation) loadFrames() error {
	if path := s.level.AtlasPath(); path != "" {
		err := s.loadAtlasFrames(path)
		if err == nil {
			return nil
		}
		s.log.Warn("tileset unavailable, using palette", zap.String("atlas", path), zap.Error(err))
		s.releaseTextures()
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(numTiles)+len(walkColors), 1))
	for i, c := range tileColors {
		img.Set(i, 0, c)
	}
	for i, c := range walkColors {
		img.Set(int(numTiles)+i, 0, c)
	}
	tex := s.g.LoadTextureFromImage(img)
	s.textures = append(s.textures, tex)
	for i := range s.tileFrames {
		s.tileFrames[i] = frame{tex, image.Rect(i, 0, i+1, 1)}
	}
	s.walk = s.walk[:0]
	for i := range walkColors {
		x := int(numTiles) + i
		s.walk = append(s.walk, frame{tex, image.Rect(x, 0, x+1, 1)})
	}
	return nil
}

func (s *Simulation) loadAtlasFrames(path string) error {
	atlas, err := lemonade.LoadAtlasFile(s.g, path)
	if err != nil {
		return err
	}
	s.textures = append(s.textures, atlas.Pages...)

	ts := s.level.Tileset
	for t := Tile(0); t < numTiles; t++ {
		name, ok := ts.Tiles[t.String()]
		if !ok {
			return fmt.Errorf("tileset has no %s tile", t)
		}
		r, ok := atlas.Region(name)
		if !ok {
			return fmt.Errorf("tileset region %q not in atlas", name)
		}
		s.tileFrames[t] = frame{r.Page, r.Rect}
	}
	if len(ts.Customer) == 0 {
		return fmt.Errorf("tileset has no customer frames")
	}
	for _, name := range ts.Customer {
		r, ok := atlas.Region(name)
		if !ok {
			return fmt.Errorf("tileset region %q not in atlas", name)
		}
		if len(s.walk) > 0 && r.Page != s.walk[0].tex {
			return fmt.Errorf("customer frame %q is on a different atlas page", name)
		}
		s.walk = append(s.walk, frame{r.Page, r.Rect})
	}
	return nil
}

func (s *Simulation) buildTiles() error {
	size := float64(s.level.TileSize)
	s.tiles = make([]lemonade.ID, 0, s.grid.W*s.grid.H)
	for y := 0; y < s.grid.H; y++ {
		for x := 0; x < s.grid.W; x++ {
			f := s.tileFrames[s.grid.At(x, y)]
			id, err := s.g.CreateTilesetSprite(f.tex, f.src, lemonade.Rect{
				X: float64(x) * size, Y: float64(y) * size, Width: size, Height: size,
			})
			if err != nil {
				return fmt.Errorf("tile %d,%d: %w", x, y, err)
			}
			s.tiles = append(s.tiles, id)
			s.lastTile = id
		}
	}
	return nil
}

// Close deletes the level's textures and with them every tile and customer
// sprite.
func (s *Simulation) Close() {
	s.releaseTextures()
	s.tiles = nil
	s.lastTile = lemonade.NoID
}

func (s *Simulation) releaseTextures() {
	for _, tex := range s.textures {
		s.g.DeleteTexture(tex)
	}
	s.textures = s.textures[:0]
	s.walk = s.walk[:0]
}

// Grid returns the parsed level map.
func (s *Simulation) Grid() *Grid { return s.grid }

// World returns the entity world.
func (s *Simulation) World() donburi.World { return s.world }

// TileSprite returns the sprite drawing cell (x, y).
func (s *Simulation) TileSprite(x, y int) lemonade.ID {
	return s.tiles[y*s.grid.W+x]
}

// Customers returns the number of customers in the level.
func (s *Simulation) Customers() int {
	return s.customers.Count(s.world)
}

// Sales returns the number of sales and the money taken.
func (s *Simulation) Sales() (count, revenue int) {
	return s.sales, s.revenue
}

// Update advances the level by dt.
func (s *Simulation) Update(dt time.Duration) {
	s.spawn(dt)
	s.move(dt)
	s.shop(dt)
	s.animate(dt)
	s.despawn()
	SaleEvent.ProcessEvents(s.world)
	s.sortByDepth()
}

func (s *Simulation) spawn(dt time.Duration) {
	s.spawnTimer += dt
	if s.spawnTimer < s.level.SpawnInterval {
		return
	}
	s.spawnTimer -= s.level.SpawnInterval
	if s.Customers() >= s.level.MaxCustomers {
		return
	}
	if _, err := s.SpawnCustomer(); err != nil {
		s.log.Debug("spawn skipped", zap.Error(err))
	}
}

// SpawnCustomer places a customer on a random spawn heading for a random
// stand.
func (s *Simulation) SpawnCustomer() (donburi.Entity, error) {
	spawns, stands := s.grid.Spawns(), s.grid.Stands()
	from := spawns[s.rng.IntN(len(spawns))]
	stand := stands[s.rng.IntN(len(stands))]
	exit := spawns[s.rng.IntN(len(spawns))]

	path := s.grid.Path(from, stand)
	if path == nil {
		return donburi.Null, fmt.Errorf("no path from %v to stand %v", from, stand)
	}
	if len(s.walk) == 0 {
		return donburi.Null, fmt.Errorf("no customer frames")
	}

	f := s.walk[0]
	sid, err := s.g.CreateTilesetSprite(f.tex, f.src, s.customerRect(from))
	if err != nil {
		return donburi.Null, err
	}

	e := s.world.Create(BodyComponent, WalkerComponent, ShopperComponent, AnimComponent)
	entry := s.world.Entry(e)
	BodyComponent.SetValue(entry, Body{Sprite: sid})
	WalkerComponent.SetValue(entry, Walker{Path: path, Next: 1})
	ShopperComponent.SetValue(entry, Shopper{State: ShopWalkingIn, Stand: stand, Exit: exit})
	s.log.Debug("customer spawned", zap.Stringer("sprite", sid),
		zap.Int("path", len(path)))
	return e, nil
}

// customerRect is the customer destination when standing on c.
func (s *Simulation) customerRect(c Cell) lemonade.Rect {
	size := float64(s.level.TileSize)
	w := size * customerScale
	return lemonade.Rect{
		X:      float64(c.X)*size + (size-w)/2,
		Y:      float64(c.Y)*size + (size-w)/2,
		Width:  w,
		Height: w,
	}
}

func (s *Simulation) move(dt time.Duration) {
	secs := float32(dt.Seconds())
	stepSecs := float32(s.level.WalkStep.Seconds())
	s.customers.Each(s.world, func(entry *donburi.Entry) {
		w := WalkerComponent.Get(entry)
		if w.step == nil {
			if w.Next >= len(w.Path) {
				return
			}
			to := s.customerRect(w.Path[w.Next])
			sprite := BodyComponent.Get(entry).Sprite
			w.step = lemonade.TweenPosition(s.g, sprite, to.X, to.Y, stepSecs, ease.Linear)
		}
		w.step.Update(secs)
		if w.step.Done {
			w.step = nil
			w.Next++
		}
	})
}

func (s *Simulation) shop(dt time.Duration) {
	s.customers.Each(s.world, func(entry *donburi.Entry) {
		sh := ShopperComponent.Get(entry)
		w := WalkerComponent.Get(entry)
		switch sh.State {
		case ShopWalkingIn:
			if w.Arrived() {
				sh.State = ShopBuying
				sh.Timer = 0
			}
		case ShopBuying:
			sh.Timer += dt
			if sh.Timer < s.level.BuyTime {
				return
			}
			SaleEvent.Publish(s.world, Sale{Customer: entry.Entity(), Stand: sh.Stand, Price: s.level.Price})
			path := s.grid.Path(sh.Stand, sh.Exit)
			if path == nil {
				path = []Cell{sh.Stand}
			}
			*w = Walker{Path: path, Next: 1}
			sh.State = ShopLeaving
		case ShopLeaving:
			if w.Arrived() {
				sh.State = ShopDone
			}
		}
	})
}

func (s *Simulation) animate(dt time.Duration) {
	if len(s.walk) < 2 {
		return
	}
	s.customers.Each(s.world, func(entry *donburi.Entry) {
		if WalkerComponent.Get(entry).Arrived() {
			return
		}
		a := AnimComponent.Get(entry)
		a.Elapsed += dt
		if a.Elapsed < animFrame {
			return
		}
		a.Elapsed -= animFrame
		a.Frame = (a.Frame + 1) % len(s.walk)
		s.g.SetSourceRect(BodyComponent.Get(entry).Sprite, s.walk[a.Frame].src)
	})
}

func (s *Simulation) despawn() {
	var gone []donburi.Entity
	s.customers.Each(s.world, func(entry *donburi.Entry) {
		if ShopperComponent.Get(entry).State != ShopDone {
			return
		}
		if sid := BodyComponent.Get(entry).Sprite; s.g.HasSprite(sid) {
			s.g.DeleteSprite(sid)
		}
		gone = append(gone, entry.Entity())
	})
	for _, e := range gone {
		s.world.Remove(e)
	}
}

func (s *Simulation) onSale(_ donburi.World, sale Sale) {
	s.sales++
	s.revenue += sale.Price
	s.log.Info("lemonade sold", zap.Int("stand_x", sale.Stand.X), zap.Int("stand_y", sale.Stand.Y),
		zap.Int("sales", s.sales), zap.Int("revenue", s.revenue))
}

// sortByDepth draws customers lower on the map over those above them by
// chaining them after the last tile in ascending Y.
func (s *Simulation) sortByDepth() {
	if s.lastTile == lemonade.NoID || !s.g.HasSprite(s.lastTile) {
		return
	}
	var sprites []lemonade.ID
	s.customers.Each(s.world, func(entry *donburi.Entry) {
		if sid := BodyComponent.Get(entry).Sprite; s.g.HasSprite(sid) {
			sprites = append(sprites, sid)
		}
	})
	sort.SliceStable(sprites, func(i, j int) bool {
		return s.g.Dest(sprites[i]).Y < s.g.Dest(sprites[j]).Y
	})
	prev := s.lastTile
	for _, sid := range sprites {
		s.g.ReorderAfter(sid, prev)
		prev = sid
	}
}
