package atlas

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karl-zylinski/atlas-builder/internal/aseprite"
	"github.com/karl-zylinski/atlas-builder/internal/logging"
	"github.com/pkg/errors"
)

// BuildOptions configures one end-to-end atlas build.
type BuildOptions struct {
	InputDir    string
	AtlasWidth  int
	AtlasHeight int
	TileSize    int
	TilePadding bool
	CropToUsed  bool
	FontPath    string
	FontPixelHeight int
	FontCodepoints  string
	DryRun      bool
}

// BuildResult is everything a successful build produced.
type BuildResult struct {
	Image     []byte // encoded PNG bytes
	Catalogue Catalogue
}

// Build runs the full pipeline: enumerate the input directory, decode every
// sprite source, flatten or extract tiles from each, rasterize the
// configured font, pack everything into a fixed-size atlas, and encode the
// result.
func Build(opts BuildOptions) (*BuildResult, error) {
	entries, err := enumerateInputs(opts.InputDir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyInputDir
	}

	var (
		textures   []TextureRecord
		animations []AnimationRecord
		tiles      []TileRecord
	)

	for _, entry := range entries {
		data, err := os.ReadFile(entry.path)
		if err != nil {
			logging.Warn("skipping input file", logging.Fields{"path": entry.path, "err": err})
			continue
		}

		if entry.kind == sourceKindPNG {
			if entry.isTileset {
				extracted, err := TilesFromPNG(symbolicName(entry.path), data, opts.TileSize)
				if err != nil {
					logging.Warn("skipping png tileset", logging.Fields{"path": entry.path, "err": err})
					continue
				}
				tiles = append(tiles, extracted...)
				if opts.DryRun {
					logging.Info("png tileset decoded", logging.Fields{"path": entry.path, "tiles_kept": len(extracted)})
				}
			} else {
				tex, err := TextureFromPNG(entry.path, data)
				if err != nil {
					logging.Warn("skipping png texture", logging.Fields{"path": entry.path, "err": err})
					continue
				}
				textures = append(textures, tex)
			}
			continue
		}

		doc, err := aseprite.Decode(data)
		if err != nil {
			logging.Warn("skipping aseprite document", logging.Fields{"path": entry.path, "err": err})
			continue
		}

		if entry.isTileset {
			extracted := ExtractTiles(doc, symbolicName(entry.path), opts.TileSize)
			tiles = append(tiles, extracted...)
			if opts.DryRun {
				logging.Info("tileset decoded", logging.Fields{"path": entry.path, "tiles_kept": len(extracted)})
			}
		} else {
			docTextures, docAnimations, err := FlattenDocument(doc, entry.path)
			if err != nil {
				logging.Warn("flatten failed", logging.Fields{"path": entry.path, "err": err})
				doc.Release()
				continue
			}
			textures = append(textures, docTextures...)
			animations = append(animations, docAnimations...)
			if opts.DryRun && len(doc.Frames) > 0 {
				logging.Info("document decoded", logging.Fields{
					"path":             entry.path,
					"frames":           len(doc.Frames),
					"chunks_in_frame0": len(doc.Frames[0].Chunks),
				})
			}
		}

		doc.Release()
	}

	var glyphs []GlyphRecord
	if opts.FontPath != "" {
		glyphs, err = RasterizeGlyphs(opts.FontPath, opts.FontCodepoints, opts.FontPixelHeight)
		if err != nil {
			logging.Warn("font rasterization skipped", logging.Fields{"font_path": opts.FontPath, "err": err})
			glyphs = nil
		}
	} else {
		logging.Warn("no font configured, atlas will contain no glyphs", nil)
	}

	if opts.DryRun {
		return &BuildResult{Catalogue: BuildCatalogue(textures, animations, tiles, glyphs, Swatch{}, opts.AtlasWidth, opts.AtlasHeight)}, nil
	}

	result, swatch, err := PackAndComposite(opts.AtlasWidth, opts.AtlasHeight, textures, tiles, glyphs, opts.TilePadding)
	if err != nil {
		return nil, err
	}
	if result.Unplaced > 0 {
		logging.Error("rectangles did not fit, continuing with a partial atlas", logging.Fields{"err": ErrNoFit, "unplaced": result.Unplaced})
	}

	img := result.Image
	if opts.CropToUsed {
		img = CropToUsedRegion(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encoding atlas png")
	}
	encoded := buf.Bytes()

	catalogue := BuildCatalogue(textures, animations, tiles, glyphs, swatch, img.Bounds().Dx(), img.Bounds().Dy())

	return &BuildResult{Image: encoded, Catalogue: catalogue}, nil
}

type sourceKind int

const (
	sourceKindAseprite sourceKind = iota
	sourceKindPNG
)

type inputEntry struct {
	path      string
	kind      sourceKind
	isTileset bool
	modTime   int64
}

// enumerateInputs scans dir for .ase/.aseprite/.png files, sorted newest
// first by modification time. Go has no portable creation-time stat, so
// modification time stands in as the closest honest substitute.
func enumerateInputs(dir string) ([]inputEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading input directory")
	}

	var entries []inputEntry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(de.Name()))
		var kind sourceKind
		switch ext {
		case ".ase", ".aseprite":
			kind = sourceKindAseprite
		case ".png":
			kind = sourceKindPNG
		default:
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, inputEntry{
			path:      filepath.Join(dir, de.Name()),
			kind:      kind,
			isTileset: strings.HasPrefix(strings.ToLower(de.Name()), "tileset"),
			modTime:   info.ModTime().UnixNano(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].modTime > entries[j].modTime })
	return entries, nil
}
