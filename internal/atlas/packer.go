package atlas

import "image"

// skylineNode is one segment of the current skyline profile: a horizontal
// span starting at x with the given width, sitting at height y.
type skylineNode struct {
	x, y, width int
}

// skylinePacker is a bottom-left skyline rectangle packer, written by hand
// since no ecosystem library fills this role.
type skylinePacker struct {
	width, height int
	skyline       []skylineNode
}

func newSkylinePacker(width, height int) *skylinePacker {
	return &skylinePacker{
		width:  width,
		height: height,
		skyline: []skylineNode{
			{x: 0, y: 0, width: width},
		},
	}
}

// insert finds the lowest-and-then-leftmost placement for a w×h rectangle
// and commits it to the skyline, returning ok=false if it doesn't fit.
func (p *skylinePacker) insert(w, h int) (x, y int, ok bool) {
	bestIdx := -1
	bestY := p.height + 1
	bestX := 0

	for i := range p.skyline {
		fitX, fitY, fits := p.fitsAt(i, w)
		if !fits {
			continue
		}
		if fitY+h > p.height {
			continue
		}
		if fitY < bestY {
			bestY = fitY
			bestX = fitX
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return 0, 0, false
	}

	p.addLevel(bestX, bestY, w, h)
	return bestX, bestY, true
}

// fitsAt checks whether a rectangle of width w can start at skyline segment
// i, and returns the x position and the y it would rest at (the max height
// of every segment it spans).
func (p *skylinePacker) fitsAt(i, w int) (x, y int, ok bool) {
	startX := p.skyline[i].x
	if startX+w > p.width {
		return 0, 0, false
	}

	maxY := p.skyline[i].y
	remaining := w
	for j := i; j < len(p.skyline) && remaining > 0; j++ {
		if p.skyline[j].y > maxY {
			maxY = p.skyline[j].y
		}
		remaining -= p.skyline[j].width
	}
	if remaining > 0 {
		return 0, 0, false
	}
	return startX, maxY, true
}

// addLevel inserts a new raised segment [x, x+w) at height y+h, splitting
// or removing whatever segments it overlaps.
func (p *skylinePacker) addLevel(x, y, w, h int) {
	newNode := skylineNode{x: x, y: y + h, width: w}

	var result []skylineNode
	inserted := false

	for _, node := range p.skyline {
		nodeEnd := node.x + node.width
		newEnd := newNode.x + newNode.width

		if nodeEnd <= newNode.x || node.x >= newEnd {
			result = append(result, node)
			continue
		}

		if !inserted {
			result = append(result, newNode)
			inserted = true
		}

		if node.x < newNode.x {
			result = append(result, skylineNode{x: node.x, y: node.y, width: newNode.x - node.x})
		}
		if nodeEnd > newEnd {
			result = append(result, skylineNode{x: newEnd, y: node.y, width: nodeEnd - newEnd})
		}
	}

	if !inserted {
		result = append(result, newNode)
	}

	p.skyline = mergeSkyline(result)
}

func mergeSkyline(nodes []skylineNode) []skylineNode {
	if len(nodes) == 0 {
		return nodes
	}

	sorted := make([]skylineNode, len(nodes))
	copy(sorted, nodes)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].x < sorted[j-1].x; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	merged := sorted[:1]
	for _, n := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.y == n.y && last.x+last.width == n.x {
			last.width += n.width
			continue
		}
		merged = append(merged, n)
	}
	return merged
}

// rectOrigin tags which catalogue entity a packed rectangle belongs to.
type rectOrigin int

const (
	originTexture rectOrigin = iota
	originGlyph
	originTile
	originSwatch
)

type packItem struct {
	origin rectOrigin
	index  int
	w, h   int
}

// PackResult is the composited atlas plus a record of any rectangle that
// didn't fit.
type PackResult struct {
	Image    *image.RGBA
	Unplaced int
}

// PackAndComposite places every texture, tile, glyph and the swatch into a
// fixed-size atlas via the skyline packer, then blits each into the
// returned image per the origin-specific seam/margin/padding rules.
// Textures, tiles and glyphs are mutated in place with their final
// Rect. A non-zero PackResult.Unplaced means some rectangles didn't fit;
// that is logged by the caller and is not a hard failure.
func PackAndComposite(width, height int, textures []TextureRecord, tiles []TileRecord, glyphs []GlyphRecord, tilePadding bool) (*PackResult, Swatch, error) {
	packer := newSkylinePacker(width, height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	unplaced := 0

	for i := range textures {
		t := &textures[i]
		x, y, ok := packer.insert(t.width+1, t.height+1)
		if !ok {
			unplaced++
			continue
		}
		t.Rect = image.Rect(x, y, x+t.width, y+t.height)
		blitRGBA(img, t.pixels, t.width, t.height, x, y)
	}

	for i := range glyphs {
		g := &glyphs[i]
		if g.width == 0 || g.height == 0 {
			continue
		}
		x, y, ok := packer.insert(g.width+2, g.height+2)
		if !ok {
			unplaced++
			continue
		}
		g.Rect = image.Rect(x+1, y+1, x+1+g.width, y+1+g.height)
		blitRGBA(img, g.pixels, g.width, g.height, x+1, y+1)
	}

	tileReserve := 1
	tileOffset := 0
	if tilePadding {
		tileReserve = 3
		tileOffset = 1
	}

	for i := range tiles {
		tile := &tiles[i]
		x, y, ok := packer.insert(tile.width+tileReserve, tile.height+tileReserve)
		if !ok {
			unplaced++
			continue
		}
		tile.Rect = image.Rect(x+tileOffset, y+tileOffset, x+tileOffset+tile.width, y+tileOffset+tile.height)
		blitRGBA(img, tile.pixels, tile.width, tile.height, x+tileOffset, y+tileOffset)
		if tilePadding {
			extrudeTileEdges(img, tile.Rect)
		}
	}

	swatch := Swatch{}
	if x, y, ok := packer.insert(11, 11); ok {
		swatch.Rect = image.Rect(x, y, x+10, y+10)
		fillOpaqueWhite(img, swatch.Rect)
	} else {
		unplaced++
	}

	return &PackResult{Image: img, Unplaced: unplaced}, swatch, nil
}

func blitRGBA(dst *image.RGBA, src []byte, w, h, x, y int) {
	for row := 0; row < h; row++ {
		srcOff := row * w * 4
		dstOff := dst.PixOffset(x, y+row)
		copy(dst.Pix[dstOff:dstOff+w*4], src[srcOff:srcOff+w*4])
	}
}

// extrudeTileEdges copies the tile's outer pixel ring one pixel further out
// on all four sides so sub-pixel camera motion samples tile-local colour
// instead of a neighbouring tile.
func extrudeTileEdges(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copyPixel(img, r.Min.X, y, r.Min.X-1, y)
		copyPixel(img, r.Max.X-1, y, r.Max.X, y)
	}
	for x := r.Min.X - 1; x <= r.Max.X; x++ {
		copyPixel(img, x, r.Min.Y, x, r.Min.Y-1)
		copyPixel(img, x, r.Max.Y-1, x, r.Max.Y)
	}
}

func copyPixel(img *image.RGBA, srcX, srcY, dstX, dstY int) {
	bounds := img.Bounds()
	if !(image.Pt(srcX, srcY).In(bounds)) || !(image.Pt(dstX, dstY).In(bounds)) {
		return
	}
	so := img.PixOffset(srcX, srcY)
	do := img.PixOffset(dstX, dstY)
	copy(img.Pix[do:do+4], img.Pix[so:so+4])
}

func fillOpaqueWhite(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			i := off + x*4
			img.Pix[i] = 255
			img.Pix[i+1] = 255
			img.Pix[i+2] = 255
			img.Pix[i+3] = 255
		}
	}
}

// CropToUsedRegion crops img to the tightest rectangle containing any
// non-transparent pixel. Atlas coordinates stay valid for anything already
// packed because the crop only ever shrinks from the bottom-right.
func CropToUsedRegion(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()
	maxX, maxY := 0, 0
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0 {
				found = true
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if !found {
		return img
	}

	cropped := image.NewRGBA(image.Rect(0, 0, maxX+1, maxY+1))
	for y := 0; y <= maxY; y++ {
		srcOff := img.PixOffset(0, y)
		dstOff := cropped.PixOffset(0, y)
		copy(cropped.Pix[dstOff:dstOff+(maxX+1)*4], img.Pix[srcOff:srcOff+(maxX+1)*4])
	}
	return cropped
}
