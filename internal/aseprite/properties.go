package aseprite

// PropertyType tags the variant held by a PropertyValue.
type PropertyType uint8

const (
	PropertyNull PropertyType = iota
	PropertyBool
	PropertyInt8
	PropertyUint8
	PropertyInt16
	PropertyUint16
	PropertyInt32
	PropertyUint32
	PropertyInt64
	PropertyUint64
	PropertyFixed
	PropertyFloat
	PropertyDouble
	PropertyString
	PropertyPoint
	PropertySize
	PropertyRect
	PropertyUUID
	PropertyVector
	PropertyMap
)

// wireType is the on-disk 16-bit discriminant for a property value, which
// does not line up one-to-one with PropertyType (the wire format reserves a
// distinct code per integer width).
type wireType uint16

const (
	wireNull   wireType = 0x0000
	wireBool   wireType = 0x0001
	wireInt8   wireType = 0x0002
	wireUint8  wireType = 0x0003
	wireInt16  wireType = 0x0004
	wireUint16 wireType = 0x0005
	wireInt32  wireType = 0x0006
	wireUint32 wireType = 0x0007
	wireInt64  wireType = 0x0008
	wireUint64 wireType = 0x0009
	wireFixed  wireType = 0x000A
	wireFloat  wireType = 0x000B
	wireDouble wireType = 0x000C
	wireString wireType = 0x000D
	wirePoint  wireType = 0x000E
	wireSize   wireType = 0x000F
	wireRect   wireType = 0x0010
	wireVector wireType = 0x0011
	wireMap    wireType = 0x0012
	wireUUID   wireType = 0x0013
)

// PropertyValue is one node of the polymorphic property-value tree: exactly
// one of its typed fields is meaningful, selected by Type.
type PropertyValue struct {
	Type PropertyType

	Bool   bool
	Int    int64
	Uint   uint64
	Fixed  float64
	Float  float32
	Double float64
	String string
	Point  Point
	Size   Size
	Rect   Rect
	UUID   UUID
	Vector []PropertyValue
	Map    map[string]PropertyValue
}

// readPropertyValue decodes one tagged property value, recursing into
// Vector and Map for the two container variants.
func readPropertyValue(doc *Document, r *reader) (PropertyValue, error) {
	typ, err := r.ReadUint16()
	if err != nil {
		return PropertyValue{}, err
	}
	return readPropertyValueTyped(doc, r, wireType(typ))
}

func readPropertyValueTyped(doc *Document, r *reader, typ wireType) (PropertyValue, error) {
	switch typ {
	case wireNull:
		return PropertyValue{Type: PropertyNull}, nil

	case wireBool:
		v, err := r.ReadUint8()
		return PropertyValue{Type: PropertyBool, Bool: v != 0}, err

	case wireInt8:
		v, err := r.ReadInt8()
		return PropertyValue{Type: PropertyInt8, Int: int64(v)}, err

	case wireUint8:
		v, err := r.ReadUint8()
		return PropertyValue{Type: PropertyUint8, Uint: uint64(v)}, err

	case wireInt16:
		v, err := r.ReadInt16()
		return PropertyValue{Type: PropertyInt16, Int: int64(v)}, err

	case wireUint16:
		v, err := r.ReadUint16()
		return PropertyValue{Type: PropertyUint16, Uint: uint64(v)}, err

	case wireInt32:
		v, err := r.ReadInt32()
		return PropertyValue{Type: PropertyInt32, Int: int64(v)}, err

	case wireUint32:
		v, err := r.ReadUint32()
		return PropertyValue{Type: PropertyUint32, Uint: uint64(v)}, err

	case wireInt64:
		v, err := r.ReadInt64()
		return PropertyValue{Type: PropertyInt64, Int: v}, err

	case wireUint64:
		v, err := r.ReadUint64()
		return PropertyValue{Type: PropertyUint64, Uint: v}, err

	case wireFixed:
		v, err := r.ReadFixed()
		return PropertyValue{Type: PropertyFixed, Fixed: v}, err

	case wireFloat:
		v, err := r.ReadFloat32()
		return PropertyValue{Type: PropertyFloat, Float: v}, err

	case wireDouble:
		v, err := r.ReadFloat64()
		return PropertyValue{Type: PropertyDouble, Double: v}, err

	case wireString:
		v, err := r.ReadString()
		return PropertyValue{Type: PropertyString, String: doc.arena.allocString(v)}, err

	case wirePoint:
		v, err := r.ReadPoint()
		return PropertyValue{Type: PropertyPoint, Point: v}, err

	case wireSize:
		v, err := r.ReadSize()
		return PropertyValue{Type: PropertySize, Size: v}, err

	case wireRect:
		v, err := r.ReadRect()
		return PropertyValue{Type: PropertyRect, Rect: v}, err

	case wireUUID:
		v, err := r.ReadUUID()
		return PropertyValue{Type: PropertyUUID, UUID: v}, err

	case wireVector:
		return readPropertyVector(doc, r)

	case wireMap:
		return readPropertyMap(doc, r)

	default:
		return PropertyValue{}, wrapAt(r.Pos(), ErrInvalidPropertyType)
	}
}

func readPropertyVector(doc *Document, r *reader) (PropertyValue, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return PropertyValue{}, err
	}

	elemType, err := r.ReadUint16()
	if err != nil {
		return PropertyValue{}, err
	}

	values := make([]PropertyValue, 0, count)
	for i := uint32(0); i < count; i++ {
		var (
			v   PropertyValue
			err error
		)
		if elemType == 0 {
			v, err = readPropertyValue(doc, r)
		} else {
			v, err = readPropertyValueTyped(doc, r, wireType(elemType))
		}
		if err != nil {
			return PropertyValue{}, err
		}
		values = append(values, v)
	}

	return PropertyValue{Type: PropertyVector, Vector: values}, nil
}

func readPropertyMap(doc *Document, r *reader) (PropertyValue, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return PropertyValue{}, err
	}

	m := make(map[string]PropertyValue, count)
	for i := uint32(0); i < count; i++ {
		key, err := r.ReadString()
		if err != nil {
			return PropertyValue{}, err
		}
		val, err := readPropertyValue(doc, r)
		if err != nil {
			return PropertyValue{}, err
		}
		m[doc.arena.allocString(key)] = val
	}

	return PropertyValue{Type: PropertyMap, Map: m}, nil
}

// PropertyMap is one named group of properties, keyed by the string form of
// the 16-byte key read for it (the extension that defined them).
type PropertyMap struct {
	ExtensionKey string
	Values       map[string]PropertyValue
}

// readPropertyMaps decodes the user-data chunk's top-level properties
// structure: a 32-bit total byte size covering the whole structure
// (itself included), a 32-bit map count, then one PropertyMap per
// extension.
func readPropertyMaps(doc *Document, r *reader) ([]PropertyMap, error) {
	startPos := r.Pos()

	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	maps := make([]PropertyMap, 0, count)
	for i := uint32(0); i < count; i++ {
		extKey, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}

		inner, err := readPropertyMap(doc, r)
		if err != nil {
			return nil, err
		}

		maps = append(maps, PropertyMap{
			ExtensionKey: doc.arena.allocString(uuidString(extKey)),
			Values:       inner.Map,
		})
	}

	if consumed := uint32(r.Pos() - startPos); consumed != size {
		return nil, wrapAt(r.Pos(), ErrDataSizeMismatch)
	}

	return maps, nil
}

func uuidString(u UUID) string {
	const hex = "0123456789abcdef"
	var buf [36]byte
	j := 0
	for i, b := range u {
		if i == 4 || i == 6 || i == 8 || i == 10 {
			buf[j] = '-'
			j++
		}
		buf[j] = hex[b>>4]
		buf[j+1] = hex[b&0x0F]
		j += 2
	}
	return string(buf[:])
}
