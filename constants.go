package magickit

// Flag is a libmagic behavior flag. Flags combine with bitwise OR.
type Flag int

// Behavior flags recognized by the magic library. Values mirror the
// MAGIC_* constants from magic.h.
const (
	// FlagNone requests no special handling.
	FlagNone Flag = 0x0000000

	// FlagDebug prints debugging messages to the error stream.
	FlagDebug Flag = 0x0000001

	// FlagSymlink follows symbolic links.
	FlagSymlink Flag = 0x0000002

	// FlagCompress looks inside compressed files.
	FlagCompress Flag = 0x0000004

	// FlagDevices checks the contents of block and character devices.
	FlagDevices Flag = 0x0000008

	// FlagMimeType reports the MIME type instead of a description.
	FlagMimeType Flag = 0x0000010

	// FlagContinue reports all matches, not just the first.
	FlagContinue Flag = 0x0000020

	// FlagCheck prints rule-consistency warnings.
	FlagCheck Flag = 0x0000040

	// FlagPreserveAtime restores file access times after reading.
	FlagPreserveAtime Flag = 0x0000080

	// FlagRaw leaves unprintable characters unescaped.
	FlagRaw Flag = 0x0000100

	// FlagError treats OS errors as real errors instead of folding them
	// into the result text.
	FlagError Flag = 0x0000200

	// FlagMimeEncoding reports the MIME encoding.
	FlagMimeEncoding Flag = 0x0000400

	// FlagMime reports both MIME type and encoding.
	FlagMime Flag = FlagMimeType | FlagMimeEncoding

	// FlagApple reports the Apple creator and type.
	FlagApple Flag = 0x0000800

	// FlagNoCheckCompress skips checking for compressed files.
	FlagNoCheckCompress Flag = 0x0001000

	// FlagNoCheckTar skips checking for tar archives.
	FlagNoCheckTar Flag = 0x0002000

	// FlagNoCheckSoft skips consulting the loaded rule database.
	FlagNoCheckSoft Flag = 0x0004000

	// FlagNoCheckApptype skips checking EMX application types.
	FlagNoCheckApptype Flag = 0x0008000

	// FlagNoCheckElf skips ELF detail parsing.
	FlagNoCheckElf Flag = 0x0010000

	// FlagNoCheckText skips text-file detail checks.
	FlagNoCheckText Flag = 0x0020000

	// FlagNoCheckCdf skips Composite Document File checks.
	FlagNoCheckCdf Flag = 0x0040000

	// FlagNoCheckCsv skips CSV checks.
	FlagNoCheckCsv Flag = 0x0080000

	// FlagNoCheckTokens skips known-token checks.
	FlagNoCheckTokens Flag = 0x0100000

	// FlagNoCheckEncoding skips text encoding detection.
	FlagNoCheckEncoding Flag = 0x0200000

	// FlagNoCheckJson skips JSON checks.
	FlagNoCheckJson Flag = 0x0400000

	// FlagNoCheckBuiltin disables every built-in check, leaving only the
	// loaded rule database. It is the highest flag value the library
	// recognizes; SetFlags rejects anything above it.
	FlagNoCheckBuiltin = FlagNoCheckCompress | FlagNoCheckTar |
		FlagNoCheckApptype | FlagNoCheckElf | FlagNoCheckText |
		FlagNoCheckCsv | FlagNoCheckCdf | FlagNoCheckTokens |
		FlagNoCheckEncoding | FlagNoCheckJson
)

// Separator joins multiple rule database paths into the form the magic
// library expects.
const Separator = ":"
