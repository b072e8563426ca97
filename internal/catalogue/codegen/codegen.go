// Package codegen renders a composited atlas catalogue into a single Go
// source file: package-level types and maps the downstream game imports
// directly, rather than a JSON/YAML sidecar it would have to parse.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"image"
	"text/template"

	"github.com/karl-zylinski/atlas-builder/internal/atlas"
)

//go:generate go run ../../../cmd/atlas-builder --input ./sprites --out-image ./atlas.png --out-go ./atlas_gen.go

type rectTpl struct {
	X, Y, W, H int
}

func toRect(r image.Rectangle) rectTpl {
	return rectTpl{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

type textureTpl struct {
	Name                                             string
	Rect                                              rectTpl
	DocWidth, DocHeight                               int
	OffsetTop, OffsetRight, OffsetBottom, OffsetLeft   int
	DurationSecs                                       float64
}

type animationTpl struct {
	Name                string
	First, Last         string
	Direction           int
	Repeat              int
	DocWidth, DocHeight int
}

type tileEntryTpl struct {
	X, Y int
	Rect rectTpl
}

type tilesetTpl struct {
	Name    string
	Entries []tileEntryTpl
}

type glyphTpl struct {
	Codepoint                  int32
	Rect                       rectTpl
	OffsetX, OffsetY, AdvanceX int
}

type renderData struct {
	Package    string
	Textures   []textureTpl
	Animations []animationTpl
	Tilesets   []tilesetTpl
	Glyphs     []glyphTpl
	Swatch     rectTpl
	AtlasW     int
	AtlasH     int
}

var sourceTemplate = template.Must(template.New("catalogue").Parse(`// Code generated by atlas-builder. DO NOT EDIT.

package {{ .Package }}

// Rect is an axis-aligned region of the atlas image, in pixels.
type Rect struct {
	X, Y, W, H int
}

// TextureFrame locates one decoded animation frame within the atlas.
type TextureFrame struct {
	Rect                                              Rect
	DocWidth, DocHeight                               int
	OffsetTop, OffsetRight, OffsetBottom, OffsetLeft   int
	DurationSecs                                       float64
}

// Animation names a playable run of TextureFrame entries.
type Animation struct {
	First, Last         string
	Direction           int
	Repeat              int
	DocWidth, DocHeight int
}

// Tile locates one surviving tile from a tileset source.
type Tile struct {
	Rect Rect
	X, Y int
}

// Glyph locates one rasterized codepoint within the atlas.
type Glyph struct {
	Rect                       Rect
	OffsetX, OffsetY, AdvanceX int
}

// AtlasWidth and AtlasHeight are the emitted atlas image's final pixel
// dimensions, after any crop-to-used-region pass.
const (
	AtlasWidth  = {{ .AtlasW }}
	AtlasHeight = {{ .AtlasH }}
)

// Textures maps a frame's symbolic name to its atlas location.
var Textures = map[string]TextureFrame{
{{- range .Textures }}
	{{ printf "%q" .Name }}: {Rect: Rect{ {{ .Rect.X }}, {{ .Rect.Y }}, {{ .Rect.W }}, {{ .Rect.H }} }, DocWidth: {{ .DocWidth }}, DocHeight: {{ .DocHeight }}, OffsetTop: {{ .OffsetTop }}, OffsetRight: {{ .OffsetRight }}, OffsetBottom: {{ .OffsetBottom }}, OffsetLeft: {{ .OffsetLeft }}, DurationSecs: {{ .DurationSecs }}},
{{- end }}
}

// Animations maps an animation's symbolic name to its frame range.
var Animations = map[string]Animation{
{{- range .Animations }}
	{{ printf "%q" .Name }}: {First: {{ printf "%q" .First }}, Last: {{ printf "%q" .Last }}, Direction: {{ .Direction }}, Repeat: {{ .Repeat }}, DocWidth: {{ .DocWidth }}, DocHeight: {{ .DocHeight }}},
{{- end }}
}

// Tiles maps a tileset name to its surviving tiles, keyed by grid (x, y).
var Tiles = map[string]map[[2]int]Tile{
{{- range .Tilesets }}
	{{ printf "%q" .Name }}: {
	{{- range .Entries }}
		{ {{ .X }}, {{ .Y }} }: {Rect: Rect{ {{ .Rect.X }}, {{ .Rect.Y }}, {{ .Rect.W }}, {{ .Rect.H }} }, X: {{ .X }}, Y: {{ .Y }}},
	{{- end }}
	},
{{- end }}
}

// Glyphs maps a rune to its atlas location and pen metrics.
var Glyphs = map[rune]Glyph{
{{- range .Glyphs }}
	{{ .Codepoint }}: {Rect: Rect{ {{ .Rect.X }}, {{ .Rect.Y }}, {{ .Rect.W }}, {{ .Rect.H }} }, OffsetX: {{ .OffsetX }}, OffsetY: {{ .OffsetY }}, AdvanceX: {{ .AdvanceX }}},
{{- end }}
}

// SwatchRect is the single solid-white rectangle reserved in the atlas.
var SwatchRect = Rect{ {{ .Swatch.X }}, {{ .Swatch.Y }}, {{ .Swatch.W }}, {{ .Swatch.H }} }
`))

// Render renders a catalogue to formatted Go source under the given
// package name.
func Render(packageName string, cat atlas.Catalogue) ([]byte, error) {
	data := renderData{
		Package: packageName,
		AtlasW:  cat.AtlasSize.X,
		AtlasH:  cat.AtlasSize.Y,
		Swatch:  toRect(cat.Swatch.Rect),
	}

	for _, t := range cat.Textures {
		data.Textures = append(data.Textures, textureTpl{
			Name:         t.Name,
			Rect:         toRect(t.Rect),
			DocWidth:     t.DocumentSize.X,
			DocHeight:    t.DocumentSize.Y,
			OffsetTop:    t.OffsetTop,
			OffsetRight:  t.OffsetRight,
			OffsetBottom: t.OffsetBottom,
			OffsetLeft:   t.OffsetLeft,
			DurationSecs: t.DurationSecs,
		})
	}

	for _, a := range cat.Animations {
		data.Animations = append(data.Animations, animationTpl{
			Name:      a.Name,
			First:     a.FirstFrame,
			Last:      a.LastFrame,
			Direction: int(a.Direction),
			Repeat:    a.Repeat,
			DocWidth:  a.DocumentSize.X,
			DocHeight: a.DocumentSize.Y,
		})
	}

	order := make([]string, 0)
	byTileset := make(map[string][]tileEntryTpl)
	for _, t := range cat.Tiles {
		if _, ok := byTileset[t.Tileset]; !ok {
			order = append(order, t.Tileset)
		}
		byTileset[t.Tileset] = append(byTileset[t.Tileset], tileEntryTpl{X: t.X, Y: t.Y, Rect: toRect(t.Rect)})
	}
	for _, name := range order {
		data.Tilesets = append(data.Tilesets, tilesetTpl{Name: name, Entries: byTileset[name]})
	}

	for _, g := range cat.Glyphs {
		data.Glyphs = append(data.Glyphs, glyphTpl{
			Codepoint: int32(g.Codepoint),
			Rect:      toRect(g.Rect),
			OffsetX:   g.OffsetX,
			OffsetY:   g.OffsetY,
			AdvanceX:  g.AdvanceX,
		})
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing catalogue template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated catalogue: %w", err)
	}
	return formatted, nil
}
