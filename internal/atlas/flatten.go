package atlas

import (
	"image"
	"sort"

	"github.com/karl-zylinski/atlas-builder/internal/aseprite"
)

// layerInfo is one layer's decoded header plus the sequential index cels
// reference, assigned in the same file order the decoder used when it
// counted layer chunks.
type layerInfo struct {
	index   int
	visible bool
}

func collectLayers(doc *aseprite.Document) []layerInfo {
	var layers []layerInfo
	idx := 0
	for _, frame := range doc.Frames {
		for _, chunk := range frame.Chunks {
			layer, ok := chunk.(*aseprite.LayerChunk)
			if !ok {
				continue
			}
			layers = append(layers, layerInfo{index: idx, visible: layer.Visible})
			idx++
		}
	}
	return layers
}

func visibleLayerSet(layers []layerInfo) map[int]bool {
	set := make(map[int]bool, len(layers))
	for _, l := range layers {
		if l.visible {
			set[l.index] = true
		}
	}
	return set
}

func findPalette(doc *aseprite.Document) *aseprite.PaletteChunk {
	for _, frame := range doc.Frames {
		for _, chunk := range frame.Chunks {
			if p, ok := chunk.(*aseprite.PaletteChunk); ok {
				return p
			}
		}
	}
	return nil
}

func collectTags(doc *aseprite.Document) []aseprite.Tag {
	var tags []aseprite.Tag
	for _, frame := range doc.Frames {
		for _, chunk := range frame.Chunks {
			if t, ok := chunk.(*aseprite.TagsChunk); ok {
				tags = append(tags, t.Tags...)
			}
		}
	}
	return tags
}

// FlattenDocument composites every frame's visible Compressed_Image cels
// into one RGBA buffer per frame and derives the document's animation
// records, naming everything from sourceName per the catalogue's naming
// scheme.
func FlattenDocument(doc *aseprite.Document, sourceName string) ([]TextureRecord, []AnimationRecord, error) {
	layers := collectLayers(doc)
	visible := visibleLayerSet(layers)

	var palette *aseprite.PaletteChunk
	if doc.Header.ColorDepth == aseprite.ColorDepthIndexed {
		palette = findPalette(doc)
		if palette == nil {
			return nil, nil, ErrMissingPaletteForIndexed
		}
	}

	docRect := image.Rect(0, 0, doc.Header.Width, doc.Header.Height)
	baseName := symbolicName(sourceName)

	var textures []TextureRecord
	for _, frame := range doc.Frames {
		cels := selectFlattenCels(frame, visible)
		if len(cels) == 0 {
			continue
		}

		bounds := celBoundingBox(cels)
		buf := make([]byte, bounds.Dx()*bounds.Dy()*4)

		sort.Slice(cels, func(i, j int) bool { return cels[i].LayerIndex < cels[j].LayerIndex })
		for _, cel := range cels {
			blitCel(buf, bounds, cel, doc.Header.ColorDepth, palette)
		}

		source := bounds.Intersect(docRect)
		sourcePixels := cropPixels(buf, bounds, source)

		textures = append(textures, TextureRecord{
			Name:         frameTextureName(baseName, frame.Index),
			SourceDoc:    sourceName,
			FrameIndex:   frame.Index,
			DocumentSize: image.Pt(doc.Header.Width, doc.Header.Height),
			OffsetTop:    source.Min.Y - docRect.Min.Y,
			OffsetLeft:   source.Min.X - docRect.Min.X,
			OffsetRight:  docRect.Max.X - source.Max.X,
			OffsetBottom: docRect.Max.Y - source.Max.Y,
			DurationSecs: frame.Duration.Seconds(),
			pixels:       sourcePixels,
			width:        source.Dx(),
			height:       source.Dy(),
		})
	}

	animations := buildAnimations(doc, baseName, textures)
	return textures, animations, nil
}

func selectFlattenCels(frame aseprite.Frame, visible map[int]bool) []*aseprite.CelChunk {
	var cels []*aseprite.CelChunk
	for _, chunk := range frame.Chunks {
		cel, ok := chunk.(*aseprite.CelChunk)
		if !ok {
			continue
		}
		if cel.Kind != aseprite.CelKindCompressedImage {
			continue
		}
		if !visible[cel.LayerIndex] {
			continue
		}
		cels = append(cels, cel)
	}
	return cels
}

func celBoundingBox(cels []*aseprite.CelChunk) image.Rectangle {
	var box image.Rectangle
	for i, cel := range cels {
		r := image.Rect(
			int(cel.Position.X), int(cel.Position.Y),
			int(cel.Position.X)+int(cel.Size.W), int(cel.Position.Y)+int(cel.Size.H),
		)
		if i == 0 {
			box = r
		} else {
			box = box.Union(r)
		}
	}
	return box
}

// blitCel materializes one cel's pixels to RGBA and opaquely replaces the
// destination buffer contents at its offset within bounds. Per legacy
// behavior this does not alpha-blend.
func blitCel(dst []byte, bounds image.Rectangle, cel *aseprite.CelChunk, depth aseprite.ColorDepth, palette *aseprite.PaletteChunk) {
	destW := bounds.Dx()
	offX := int(cel.Position.X) - bounds.Min.X
	offY := int(cel.Position.Y) - bounds.Min.Y
	w := int(cel.Size.W)
	h := int(cel.Size.H)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := materializePixel(cel.Pixels, x, y, w, depth, palette)
			dx := offX + x
			dy := offY + y
			if dx < 0 || dy < 0 || dx >= destW {
				continue
			}
			di := (dy*destW + dx) * 4
			if di < 0 || di+4 > len(dst) {
				continue
			}
			copy(dst[di:di+4], px[:])
		}
	}
}

func materializePixel(src []byte, x, y, w int, depth aseprite.ColorDepth, palette *aseprite.PaletteChunk) aseprite.Pixel {
	bpp := depth.BytesPerPixel()
	i := (y*w + x) * bpp

	switch depth {
	case aseprite.ColorDepthRGBA:
		if i+4 > len(src) {
			return aseprite.Pixel{}
		}
		return aseprite.Pixel{src[i], src[i+1], src[i+2], src[i+3]}

	case aseprite.ColorDepthGrayscale:
		if i+2 > len(src) {
			return aseprite.Pixel{}
		}
		v, a := src[i], src[i+1]
		return aseprite.Pixel{v, v, v, a}

	case aseprite.ColorDepthIndexed:
		if i >= len(src) {
			return aseprite.Pixel{}
		}
		index := int(src[i])
		if index == 0 {
			return aseprite.Pixel{}
		}
		if palette == nil || index >= len(palette.Entries) {
			return aseprite.Pixel{}
		}
		return palette.Entries[index].Color

	default:
		return aseprite.Pixel{}
	}
}

func cropPixels(buf []byte, bounds, crop image.Rectangle) []byte {
	if crop == bounds {
		return buf
	}
	srcW := bounds.Dx()
	dstW := crop.Dx()
	dstH := crop.Dy()
	out := make([]byte, dstW*dstH*4)
	for y := 0; y < dstH; y++ {
		srcY := crop.Min.Y - bounds.Min.Y + y
		srcX := crop.Min.X - bounds.Min.X
		srcOff := (srcY*srcW + srcX) * 4
		dstOff := y * dstW * 4
		copy(out[dstOff:dstOff+dstW*4], buf[srcOff:srcOff+dstW*4])
	}
	return out
}

func buildAnimations(doc *aseprite.Document, baseName string, textures []TextureRecord) []AnimationRecord {
	if len(textures) == 0 {
		return nil
	}

	docSize := image.Pt(doc.Header.Width, doc.Header.Height)
	tags := collectTags(doc)

	byFrame := make(map[int]string, len(textures))
	for _, t := range textures {
		byFrame[t.FrameIndex] = t.Name
	}

	if len(tags) == 0 {
		if len(doc.Frames) <= 1 {
			return nil
		}
		first, firstOK := byFrame[0]
		last, lastOK := byFrame[len(doc.Frames)-1]
		if !firstOK || !lastOK {
			return nil
		}
		return []AnimationRecord{{
			Name:         baseName,
			FirstFrame:   first,
			LastFrame:    last,
			Direction:    LoopForward,
			DocumentSize: docSize,
		}}
	}

	animations := make([]AnimationRecord, 0, len(tags))
	for _, tag := range tags {
		first, firstOK := byFrame[tag.FromFrame]
		last, lastOK := byFrame[tag.ToFrame]
		if !firstOK || !lastOK {
			continue
		}
		animations = append(animations, AnimationRecord{
			Name:         baseName + "_" + tag.Name,
			FirstFrame:   first,
			LastFrame:    last,
			Direction:    LoopDirection(tag.Direction),
			Repeat:       tag.Repeat,
			DocumentSize: docSize,
		})
	}
	return animations
}
