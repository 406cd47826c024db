package export

import (
	"fmt"
	"regexp"
)

// titleSpace is Unicode whitespace: ASCII \s plus \v, every Zs separator,
// U+2028, U+2029 and the BOM.
const titleSpace = `\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	// Accented vowels and ñ are the only non-ASCII letters kept.
	disallowedTitleChars = regexp.MustCompile(`[^a-zA-Z0-9áéíóúÁÉÍÓÚñÑ` + titleSpace + `]`)
	titleEdgeSpace       = regexp.MustCompile(`^[` + titleSpace + `]+|[` + titleSpace + `]+$`)
	titleWhitespace      = regexp.MustCompile(`[` + titleSpace + `]+`)
)

// ArchiveName builds Sesion_{n}_{title}.zip from session metadata.
func ArchiveName(sessionNumber int, sessionTitle string) string {
	clean := disallowedTitleChars.ReplaceAllString(sessionTitle, "")
	clean = titleEdgeSpace.ReplaceAllString(clean, "")
	clean = titleWhitespace.ReplaceAllString(clean, "_")
	return fmt.Sprintf("Sesion_%d_%s.zip", sessionNumber, clean)
}

// EntryName is the archive entry for a step: paso_01.png, paso_12.png.
func EntryName(stepNumber int) string {
	return fmt.Sprintf("paso_%02d.png", stepNumber)
}
