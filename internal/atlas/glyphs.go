package atlas

import (
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterizeGlyphs rasterizes every rune in codepoints from the TrueType
// font at fontPath at the given pixel height, promoting each glyph's 8-bit
// alpha coverage to a white RGBA bitmap.
func RasterizeGlyphs(fontPath string, codepoints string, pixelHeight int) ([]GlyphRecord, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading font file")
	}

	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing truetype font")
	}

	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    float64(pixelHeight),
		Hinting: font.HintingFull,
	})
	defer face.Close()

	records := make([]GlyphRecord, 0, len(codepoints))
	for _, r := range codepoints {
		rec, err := rasterizeOne(face, r)
		if err != nil {
			return nil, errors.Wrapf(err, "rasterizing codepoint %q", r)
		}
		records = append(records, rec)
	}
	return records, nil
}

func rasterizeOne(face font.Face, r rune) (GlyphRecord, error) {
	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		return GlyphRecord{Codepoint: r}, nil
	}

	dot := fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
	dr, mask, maskp, _, ok := face.Glyph(dot, r)
	if !ok || dr.Dx() <= 0 || dr.Dy() <= 0 {
		return GlyphRecord{Codepoint: r, AdvanceX: advance.Round()}, nil
	}

	w, h := dr.Dx(), dr.Dy()
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			if a == 0 {
				continue
			}
			di := (y*w + x) * 4
			buf[di] = 255
			buf[di+1] = 255
			buf[di+2] = 255
			buf[di+3] = uint8(a >> 8)
		}
	}

	return GlyphRecord{
		Codepoint: r,
		OffsetX:   bounds.Min.X.Round(),
		OffsetY:   bounds.Min.Y.Round(),
		AdvanceX:  advance.Round(),
		pixels:    buf,
		width:     w,
		height:    h,
	}, nil
}
