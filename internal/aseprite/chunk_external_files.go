package aseprite

import "github.com/google/uuid"

// ExternalFileEntryType says what an external file entry refers to.
type ExternalFileEntryType uint8

const (
	ExternalFileEntryPalette ExternalFileEntryType = iota
	ExternalFileEntryTileset
	ExternalFileEntryExtensionProperties
	ExternalFileEntryExtensionTileManagement
)

// ExternalFileEntry is one row of the external files table: an ID used to
// cross-reference it from tileset/palette chunks, and either a filename or
// an extension UUID.
type ExternalFileEntry struct {
	ID       uint32
	Type     ExternalFileEntryType
	Filename string
	Extension uuid.UUID
}

// ExternalFilesChunk lists files and extensions this document references,
// such as an external tileset or palette.
type ExternalFilesChunk struct {
	Entries []ExternalFileEntry
}

func (c *ExternalFilesChunk) Type() ChunkType { return ChunkExternalFiles }

func decodeExternalFilesChunk(doc *Document, r *reader) (*ExternalFilesChunk, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(8); err != nil { // reserved
		return nil, err
	}

	entries := make([]ExternalFileEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}

		typ, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}

		if err := r.Skip(7); err != nil { // reserved
			return nil, err
		}

		entry := ExternalFileEntry{ID: id, Type: ExternalFileEntryType(typ)}

		if entry.Type == ExternalFileEntryExtensionProperties || entry.Type == ExternalFileEntryExtensionTileManagement {
			raw, err := r.ReadUUID()
			if err != nil {
				return nil, err
			}
			entry.Extension = uuid.UUID(raw)
		} else {
			name, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			entry.Filename = doc.arena.allocString(name)
		}

		entries = append(entries, entry)
	}

	return &ExternalFilesChunk{Entries: entries}, nil
}
