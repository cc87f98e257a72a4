package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные загрузки
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM is set when a UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF is set when \r\n separators were rewritten to \n.
	FileNormalizedCRLF
	// FileNormalizedNFC is set when content was converted to Unicode NFC.
	FileNormalizedNFC
	// FileNoFinalNewline marks content that does not end with '\n'.
	FileNoFinalNewline
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// LoadOptions tweaks how Load normalizes bytes read from disk.
type LoadOptions struct {
	// NFC converts the content to Unicode normalization form C.
	// Off by default: it breaks byte-exact round trips for decomposed input.
	NFC bool
}
