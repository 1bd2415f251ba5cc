// Package policy - Aufloesung der Ziel-Kontextgroesse fuer Model-Eintraege
// Enthaelt: Options, Resolve, SkipExisting und die Ziel-Namensbildung
package policy

import (
	"strings"

	"github.com/7blacky7/ollamactx/format"
)

// NamingMode bestimmt, unter welchem Namen das Ergebnis geschrieben wird.
type NamingMode int

const (
	// NamingOverwrite schreibt den Quellnamen neu (Default).
	NamingOverwrite NamingMode = iota
	// NamingAuto leitet den Zielnamen aus Basis und Kontextgroesse ab.
	NamingAuto
	// NamingCustom schreibt unter einem frei gewaehlten Namen.
	NamingCustom
)

// Options buendelt die Flags, die die Aufloesung steuern.
type Options struct {
	// ForceUpdate schreibt auch Eintraege neu, deren num_ctx bereits
	// gesetzt ist.
	ForceUpdate bool

	// MaxContextCap begrenzt den nativen Kontext nach oben (0 = kein Cap).
	// Schliesst SpecificContext aus.
	MaxContextCap int

	// SpecificContext erzwingt einen festen Wert fuer alle Modelle
	// (0 = nicht gesetzt).
	SpecificContext int

	Naming     NamingMode
	CustomName string
}

// Reason benennt, welche Regel den finalen Wert bestimmt hat.
type Reason int

const (
	// UseNative uebernimmt den nativen Kontext des Modells.
	UseNative Reason = iota
	// CapAtMax begrenzt den nativen Kontext auf MaxContextCap.
	CapAtMax
	// SetSpecific setzt den explizit angeforderten Wert.
	SetSpecific
)

func (r Reason) String() string {
	switch r {
	case CapAtMax:
		return "capped at maximum"
	case SetSpecific:
		return "explicit value"
	default:
		return "native context"
	}
}

// Action ist das Ergebnis der Aufloesung fuer ein Modell.
type Action struct {
	// ContextLength ist der finale num_ctx-Wert (immer > 0).
	ContextLength int

	// Destination ist der Name, unter dem geschrieben wird.
	Destination string

	Reason Reason
}

// Resolve bestimmt den finalen Kontextwert und das Schreibziel fuer ein
// Modell. Prioritaet: SpecificContext vor MaxContextCap vor nativem Wert.
// Der Cap greift nur bei echtem Ueberschreiten; native == Cap bleibt nativ.
func Resolve(name string, native int, opts Options) Action {
	ctx := native
	reason := UseNative

	switch {
	case opts.SpecificContext > 0:
		ctx = opts.SpecificContext
		reason = SetSpecific
	case opts.MaxContextCap > 0 && native > opts.MaxContextCap:
		ctx = opts.MaxContextCap
		reason = CapAtMax
	}

	return Action{
		ContextLength: ctx,
		Destination:   Destination(name, ctx, opts),
		Reason:        reason,
	}
}

// SkipExisting meldet, ob ein Modell wegen bereits gesetztem num_ctx
// uebersprungen wird. Greift nur im Overwrite-Modus ohne ForceUpdate;
// Auto- und Custom-Namen schreiben ohnehin einen eigenen Eintrag.
func SkipExisting(configured int, opts Options) bool {
	return opts.Naming == NamingOverwrite && configured > 0 && !opts.ForceUpdate
}

// Destination bildet den Zielnamen fuer ein Modell. Auto-Namen haengen das
// Kontext-Tag an die Basis vor dem ersten ":" an, z.B. "llama3.3:latest"
// mit 131072 -> "llama3.3:128k_num_ctx". Custom-Namen werden woertlich
// uebernommen.
func Destination(name string, ctx int, opts Options) string {
	switch opts.Naming {
	case NamingAuto:
		base, _, _ := strings.Cut(name, ":")
		return base + ":" + format.ContextTag(ctx) + "_num_ctx"
	case NamingCustom:
		return opts.CustomName
	default:
		return name
	}
}
