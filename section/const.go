package section

const (
	// MagicPrefix is the database signature at the start of the header magic field.
	MagicPrefix = "T-DB"
	// Marker is the 4-byte pattern that begins every tagged object.
	Marker = "AAAA"

	// Root flag values stored in the last magic byte
	RootFlagA = 0x00 // RootFlagA selects RootOffsetA as the active root.
	RootFlagB = 0x01 // RootFlagB selects RootOffsetB as the active root.
)

// offset and section sizes in the file
const (
	FileHeaderSize   = 24 // fixed file header size in bytes
	ObjectHeaderSize = 8  // marker + tag + count
	MarkerSize       = 4 // length of Marker
	MagicSize        = 8

	OffsetRootA = 0x00 // byte offset of RootOffsetA (8 bytes, little-endian)
	OffsetRootB = 0x08 // byte offset of RootOffsetB (8 bytes, little-endian)
	OffsetMagic = 0x10 // byte offset of the magic field (8 bytes)

	RootFlagIndex = MagicSize - 1 // index of the root flag inside the magic field

	objectTagOffset   = MarkerSize     // tag follows the marker
	objectCountOffset = MarkerSize + 2 // count follows the tag
)
