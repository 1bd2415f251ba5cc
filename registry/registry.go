// Package registry - Zugriff auf die Model-Registry fuer ollamactx
// Enthaelt: Client, Descriptor-Extraktion, Create und Namens-Vorschlaege
package registry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/7blacky7/ollamactx/api"
)

// Descriptor beschreibt den Kontext-Zustand eines Registry-Eintrags.
type Descriptor struct {
	Name string

	// Native ist die trainierte Kontextlaenge aus den Model-Metadaten
	// (0 = nicht ermittelbar).
	Native int

	// Configured ist der im Parameter-Block gesetzte num_ctx
	// (0 = nicht gesetzt).
	Configured int

	// Parameters ist der rohe Parameter-Block fuer die Anzeige.
	Parameters string

	// Architecture und ParameterCount stammen aus den Model-Metadaten
	// und dienen nur der Anzeige.
	Architecture   string
	ParameterCount uint64
}

// Client kapselt die Registry-Aufrufe des Tools.
type Client struct {
	api *api.Client
}

func NewClient(c *api.Client) *Client {
	return &Client{api: c}
}

// Names gibt die Namen aller installierten Modelle zurueck.
func (c *Client) Names(ctx context.Context) ([]string, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Descriptor holt die Show-Daten eines Modells und extrahiert native und
// konfigurierte Kontextlaenge.
func (c *Client) Descriptor(ctx context.Context, name string) (Descriptor, error) {
	resp, err := c.api.Show(ctx, &api.ShowRequest{Model: name})
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Name:       name,
		Native:     nativeContextLength(resp.ModelInfo),
		Configured: configuredNumCtx(resp.Parameters),
		Parameters: resp.Parameters,
	}

	if arch, ok := resp.ModelInfo["general.architecture"].(string); ok {
		d.Architecture = arch
	}
	if count, ok := resp.ModelInfo["general.parameter_count"].(float64); ok {
		d.ParameterCount = uint64(count)
	}

	slog.Debug("fetched descriptor", "model", name, "native", d.Native, "configured", d.Configured)
	return d, nil
}

// Create schreibt einen Registry-Eintrag mit gesetztem num_ctx. destination
// und from duerfen identisch sein (Overwrite-Fall). Der Progress-Stream des
// Servers wird als Debug-Log ausgegeben.
func (c *Client) Create(ctx context.Context, destination, from string, numCtx int) error {
	req := &api.CreateRequest{
		Model:      destination,
		From:       from,
		Parameters: map[string]any{"num_ctx": numCtx},
	}

	return c.api.Create(ctx, req, func(resp api.ProgressResponse) error {
		slog.Debug("create progress", "model", destination, "status", resp.Status)
		return nil
	})
}

// nativeContextLength liest die trainierte Kontextlaenge aus den
// Model-Metadaten ("<architecture>.context_length").
func nativeContextLength(info map[string]any) int {
	if info == nil {
		return 0
	}

	arch, _ := info["general.architecture"].(string)
	if arch == "" {
		return 0
	}

	if v, ok := info[fmt.Sprintf("%s.context_length", arch)].(float64); ok {
		return int(v)
	}
	return 0
}

// configuredNumCtx sucht num_ctx im zeilenweisen Parameter-Block.
func configuredNumCtx(parameters string) int {
	scanner := bufio.NewScanner(strings.NewReader(parameters))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "num_ctx" {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				return n
			}
		}
	}
	return 0
}

// IsNotFound meldet, ob err ein 404 der Registry ist.
func IsNotFound(err error) bool {
	var se api.StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Closest gibt den Kandidaten mit der kleinsten Levenshtein-Distanz zu name
// zurueck, oder einen leeren String, wenn kein Kandidat nah genug liegt.
// Kandidaten werden zusaetzlich ohne Tag verglichen, damit ein Tippfehler im
// Basisnamen trotz abweichendem Tag erkannt wird.
func Closest(name string, candidates []string) string {
	best := ""
	score := math.MaxInt

	for _, candidate := range candidates {
		s := levenshtein.ComputeDistance(name, candidate)
		if base, _, ok := strings.Cut(candidate, ":"); ok {
			if sb := levenshtein.ComputeDistance(name, base); sb < s {
				s = sb
			}
		}
		if s < score {
			score = s
			best = candidate
		}
	}

	if score > len(name)/2 {
		return ""
	}
	return best
}
