// cmd_display.go - Anzeige von Registry-Eintraegen nach dem Schreiben
// Hauptfunktionen: showDescriptor
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/7blacky7/ollamactx/format"
	"github.com/7blacky7/ollamactx/registry"
)

// showDescriptor - Gibt die Eckdaten eines Eintrags als Tabellen aus
func showDescriptor(w io.Writer, d registry.Descriptor) {
	tableRender := func(header string, rows func() [][]string) {
		fmt.Fprintln(w, " ", header)

		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.AppendBulk(rows())
		table.Render()

		fmt.Fprintln(w)
	}

	tableRender("Model", func() (rows [][]string) {
		rows = append(rows, []string{"", "name", d.Name})
		if d.Architecture != "" {
			rows = append(rows, []string{"", "architecture", d.Architecture})
		}
		if d.ParameterCount > 0 {
			rows = append(rows, []string{"", "parameters", format.HumanNumber(d.ParameterCount)})
		}
		if d.Native > 0 {
			rows = append(rows, []string{"", "context length", strconv.Itoa(d.Native)})
		}
		if d.Configured > 0 {
			rows = append(rows, []string{"", "num_ctx", strconv.Itoa(d.Configured)})
		}
		return
	})

	if d.Parameters != "" {
		tableRender("Parameters", func() (rows [][]string) {
			scanner := bufio.NewScanner(strings.NewReader(d.Parameters))
			for scanner.Scan() {
				if text := scanner.Text(); text != "" {
					rows = append(rows, append([]string{""}, strings.Fields(text)...))
				}
			}
			return
		})
	}
}
