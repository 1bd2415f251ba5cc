// ctxsize.go - Parsen und Formatieren von Kontextfenster-Groessen
// Enthaelt: ParseContextSize, ContextTag
package format

import (
	"fmt"
	"strconv"
	"strings"
)

var separatorReplacer = strings.NewReplacer(".", "", ",", "")

// ParseContextSize parst eine Kontextgroesse wie "8k", "1M", "8.192" oder
// "131072" in eine Token-Anzahl. Tausender-Trennzeichen ("." und ",") werden
// vor der Auswertung entfernt, ein Suffix "k" oder "m" (case-insensitive)
// multipliziert mit 1024 bzw. 1024*1024.
func ParseContextSize(s string) (int, error) {
	token := separatorReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))

	multiplier := 1
	switch {
	case strings.HasSuffix(token, "k"):
		multiplier = KibiByte
		token = strings.TrimSuffix(token, "k")
	case strings.HasSuffix(token, "m"):
		multiplier = MebiByte
		token = strings.TrimSuffix(token, "m")
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid context size %q", s)
	}

	return n * multiplier, nil
}

// ContextTag formatiert eine Kontextgroesse als kompaktes Namens-Tag:
// glatte Vielfache von 1024*1024 als "<n>m", von 1024 als "<n>k", sonst
// die Dezimaldarstellung (131072 -> "128k", 1048576 -> "1m", 5000 -> "5000").
func ContextTag(n int) string {
	switch {
	case n >= MebiByte && n%MebiByte == 0:
		return strconv.Itoa(n/MebiByte) + "m"
	case n >= KibiByte && n%KibiByte == 0:
		return strconv.Itoa(n/KibiByte) + "k"
	default:
		return strconv.Itoa(n)
	}
}
