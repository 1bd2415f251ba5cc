// cmd_list.go - List Command mit Kontext-Spalten
// Hauptfunktionen: ListHandler, newListCmd
package cmd

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/ollamactx/api"
	"github.com/7blacky7/ollamactx/format"
	"github.com/7blacky7/ollamactx/registry"
)

// ListHandler - Listet Modelle mit nativer und konfigurierter Kontextlaenge
func ListHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	models, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	reg := registry.NewClient(client)

	// Kontextwerte parallel nachladen; die Zeilenreihenfolge bleibt stabil,
	// ein fehlgeschlagener Show laesst die Spalten der Zeile leer
	descriptors := make([]registry.Descriptor, len(models.Models))

	var g errgroup.Group
	g.SetLimit(max(runtime.GOMAXPROCS(0)-1, 1))

	for i, m := range models.Models {
		g.Go(func() error {
			d, err := reg.Descriptor(cmd.Context(), m.Name)
			if err != nil {
				slog.Debug("show failed", "model", m.Name, "error", err)
				return nil
			}

			descriptors[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var data [][]string

	for i, m := range models.Models {
		if len(args) == 0 || strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(args[0])) {
			var size string
			if m.RemoteModel != "" {
				size = "-"
			} else {
				size = format.HumanBytes(m.Size)
			}

			native, configured := "-", "-"
			if descriptors[i].Native > 0 {
				native = strconv.Itoa(descriptors[i].Native)
			}
			if descriptors[i].Configured > 0 {
				configured = strconv.Itoa(descriptors[i].Configured)
			}

			data = append(data, []string{m.Name, m.Digest[:12], size, native, configured, format.HumanTime(m.ModifiedAt, "Never")})
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "ID", "SIZE", "CONTEXT", "NUM_CTX", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// newListCmd - Erstellt den list Command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List models with their context sizes",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    ListHandler,
	}
}
