package lemonade

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
)

// AtlasRegion is a named sub-rectangle of one atlas page.
type AtlasRegion struct {
	Page ID
	Rect image.Rectangle
}

// Atlas maps region names to texture regions. Pages are regular textures
// registered with the Graphics the atlas was loaded into.
type Atlas struct {
	// Pages contains the atlas page textures indexed by page number.
	Pages   []ID
	regions map[string]AtlasRegion
}

// Region returns the region with the given name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns every region name in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CreateSprite creates an active sprite drawing the named region into dest.
func (a *Atlas) CreateSprite(g *Graphics, name string, dest Rect) (ID, error) {
	r, ok := a.regions[name]
	if !ok {
		return NoID, fmt.Errorf("lemonade: atlas region %q not found", name)
	}
	return g.CreateTilesetSprite(r.Page, r.Rect, dest)
}

// LoadAtlasFile reads a TexturePacker JSON file and loads its page images,
// resolved relative to the JSON file, into g.
func LoadAtlasFile(g *Graphics, path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lemonade: load atlas %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	return ParseAtlas(data, func(name string) (ID, error) {
		return g.LoadTexture(filepath.Join(dir, name))
	})
}

// ParseAtlas parses TexturePacker JSON data. Supports both the hash format
// (single "frames" object, page image in "meta") and the array format
// ("textures" array with per-page frame lists). loadPage is called once per
// page image name.
func ParseAtlas(jsonData []byte, loadPage func(image string) (ID, error)) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("lemonade: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{regions: make(map[string]AtlasRegion)}

	switch {
	case probe.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("lemonade: failed to parse atlas textures array: %w", err)
		}
		for _, p := range pages {
			if err := atlas.addPage(p.Image, p.Frames, loadPage); err != nil {
				return nil, err
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("lemonade: failed to parse atlas frames: %w", err)
		}
		if err := atlas.addPage(probe.Meta.Image, frames, loadPage); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("lemonade: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return atlas, nil
}

func (a *Atlas) addPage(img string, frames map[string]jsonFrame, loadPage func(string) (ID, error)) error {
	for name, f := range frames {
		if f.Rotated {
			return fmt.Errorf("lemonade: atlas region %q is rotated; export without rotation", name)
		}
	}
	page, err := loadPage(img)
	if err != nil {
		return err
	}
	a.Pages = append(a.Pages, page)
	for name, f := range frames {
		a.regions[name] = AtlasRegion{
			Page: page,
			Rect: image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
		}
	}
	return nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}
