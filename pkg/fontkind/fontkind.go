// Package fontkind classifies font files into the closed set of kinds
// fontdrop knows how to install.
package fontkind

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/filesystem"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// Kind represents the format of a font file
type Kind string

const (
	// OpenType fonts carry CFF outlines ("OTTO" sfnt tag)
	OpenType Kind = "opentype"

	// TrueType covers plain TrueType fonts and TrueType collections
	TrueType Kind = "truetype"
)

// Dir returns the installation subdirectory name for the kind
func (k Kind) Dir() string {
	switch k {
	case OpenType:
		return "OTF"
	case TrueType:
		return "TTF"
	}
	return ""
}

// extensions maps known filename extensions to kinds. The "ttc"
// collection extension is treated as plain TrueType.
var extensions = map[string]Kind{
	"otf": OpenType,
	"ttf": TrueType,
	"ttc": TrueType,
}

// magic sniffing table: the 4-byte sfnt version tags
var magics = map[string]Kind{
	"OTTO":             OpenType,
	"\x00\x01\x00\x00": TrueType,
	"true":             TrueType,
	"ttcf":             TrueType,
}

// Detect classifies the file at path, first by its extension and then,
// when the extension is missing or unrecognized, by reading the first
// four bytes. The file is never modified.
func Detect(fs filesystem.FS, path string) (Kind, error) {
	logger := logging.GetLogger("fontkind")

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if kind, ok := extensions[ext]; ok {
		logger.Debug().Str("path", path).Str("ext", ext).Str("kind", string(kind)).Msg("Detected kind from extension")
		return kind, nil
	}

	kind, err := sniff(fs, path)
	if err != nil {
		return "", err
	}

	logger.Debug().Str("path", path).Str("kind", string(kind)).Msg("Detected kind from magic bytes")
	return kind, nil
}

// sniff reads exactly four bytes and matches them against the known
// sfnt tags. The handle is held only for the duration of the read.
func sniff(fs filesystem.FS, path string) (Kind, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read magic bytes from %s", path)
	}

	if kind, ok := magics[string(magic)]; ok {
		return kind, nil
	}

	return "", errors.Newf(errors.ErrUnknownFormat, "unknown font format (not OTF/TTF): %s", path)
}
