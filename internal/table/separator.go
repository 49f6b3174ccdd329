package table

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/woozymasta/zipmap/internal/points"

	"github.com/rs/zerolog/log"
)

// PreviewRows bounds the rows parsed per separator candidate.
const PreviewRows = 100

// Candidates are tried in order by DetectSeparator.
var Candidates = []rune{',', ';', '\t', '|'}

// DetectSeparator returns the first candidate for which the first PreviewRows
// rows of path parse into a table carrying every required column.
// A candidate that fails to parse is skipped.
func DetectSeparator(path string) (rune, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return 0, err
	}

	for _, sep := range Candidates {
		if tryCandidate(path, sep) {
			log.Debug().Str("path", path).Str("sep", SeparatorName(sep)).Msg("Separator detected")
			return sep, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrSeparatorNotDetected, path)
}

func tryCandidate(path string, sep rune) bool {
	t, err := LoadFile(path, sep, PreviewRows)
	if err != nil {
		log.Trace().Err(err).Str("sep", SeparatorName(sep)).Msg("Separator candidate failed to parse")
		return false
	}
	return t.HasColumns(points.RequiredColumns...)
}

// ParseSeparator converts a user supplied separator. An empty string returns
// 0, meaning auto-detection. "\t" and "tab" both mean a tab character.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab", "TAB":
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '\r' || r == '\n' || r == '"' {
		return 0, fmt.Errorf("%w: %q must be a single character", ErrInvalidSeparator, s)
	}

	return r, nil
}

// SeparatorName renders a separator for logs and messages.
func SeparatorName(sep rune) string {
	if sep == '\t' {
		return `\t`
	}
	return string(sep)
}
