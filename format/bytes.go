// bytes.go - Byte- und Zahlen-Formatierung fuer Anzeigen
// Enthaelt: Dezimal-/Binaer-Konstanten, HumanBytes, HumanNumber
package format

import (
	"fmt"
	"math"
)

const (
	Byte = 1

	KiloByte = Byte * 1000
	MegaByte = KiloByte * 1000
	GigaByte = MegaByte * 1000
	TeraByte = GigaByte * 1000

	KibiByte = Byte * 1024
	MebiByte = KibiByte * 1024
	GibiByte = MebiByte * 1024
)

// HumanBytes formatiert Bytes dezimal, z.B. 4700000000 -> "4.7 GB"
func HumanBytes(b int64) string {
	switch {
	case b >= TeraByte:
		return fmt.Sprintf("%.1f TB", float64(b)/TeraByte)
	case b >= GigaByte:
		return fmt.Sprintf("%.1f GB", float64(b)/GigaByte)
	case b >= MegaByte:
		return fmt.Sprintf("%.0f MB", float64(b)/MegaByte)
	case b >= KiloByte:
		return fmt.Sprintf("%.0f KB", float64(b)/KiloByte)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// HumanNumber formatiert grosse Zahlen kompakt, z.B. 7616000000 -> "7.6B"
func HumanNumber(b uint64) string {
	const (
		thousand = 1000
		million  = thousand * 1000
		billion  = million * 1000
	)

	switch {
	case b >= billion:
		number := float64(b) / billion
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fB", number)
		}
		return fmt.Sprintf("%.1fB", number)
	case b >= million:
		number := float64(b) / million
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fM", number)
		}
		return fmt.Sprintf("%.1fM", number)
	case b >= thousand:
		number := float64(b) / thousand
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fK", number)
		}
		return fmt.Sprintf("%.1fK", number)
	default:
		return fmt.Sprintf("%d", b)
	}
}
