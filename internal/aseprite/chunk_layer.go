package aseprite

// LayerType distinguishes an image layer from a group header or a tilemap
// layer backed by a tileset.
type LayerType uint16

const (
	LayerTypeNormal LayerType = iota
	LayerTypeGroup
	LayerTypeTilemap
)

// BlendMode is the layer compositing mode. The flattener only ever applies
// BlendModeNormal; other blend modes are decoded but not interpreted.
type BlendMode uint16

const (
	BlendModeNormal BlendMode = iota
	BlendModeMultiply
	BlendModeScreen
	BlendModeOverlay
	BlendModeDarken
	BlendModeLighten
	BlendModeColorDodge
	BlendModeColorBurn
	BlendModeHardLight
	BlendModeSoftLight
	BlendModeDifference
	BlendModeExclusion
	BlendModeHue
	BlendModeSaturation
	BlendModeColor
	BlendModeLuminosity
	BlendModeAddition
	BlendModeSubtract
	BlendModeDivide
)

const (
	layerFlagVisible      uint16 = 1 << 0
	layerFlagEditable     uint16 = 1 << 1
	layerFlagBackground   uint16 = 1 << 3
	layerFlagPrefersLinked uint16 = 1 << 4
)

// LayerChunk introduces one layer or group header. Layers appear in file
// order depth-first; ChildLevel says how deeply nested this one is relative
// to the group chunks preceding it.
type LayerChunk struct {
	LayerType   LayerType
	ChildLevel  int
	BlendMode   BlendMode
	Opacity     uint8
	Name        string
	Visible     bool
	Background  bool
	TilesetIndex int // valid only when LayerType == LayerTypeTilemap
}

func (c *LayerChunk) Type() ChunkType { return ChunkLayer }

func decodeLayerChunk(doc *Document, r *reader) (*LayerChunk, error) {
	flags, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	typ, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	childLevel, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(2 + 2); err != nil { // default width/height, unused
		return nil, err
	}

	blendMode, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	opacity, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(3); err != nil { // reserved
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	layer := &LayerChunk{
		LayerType:  LayerType(typ),
		ChildLevel: int(childLevel),
		BlendMode:  BlendMode(blendMode),
		Opacity:    opacity,
		Name:       doc.arena.allocString(name),
		Visible:    flags&layerFlagVisible != 0,
		Background: flags&layerFlagBackground != 0,
	}

	if layer.LayerType == LayerTypeTilemap {
		tilesetIndex, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		layer.TilesetIndex = int(tilesetIndex)
	}

	return layer, nil
}
