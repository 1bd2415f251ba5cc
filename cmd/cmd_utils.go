// cmd_utils.go - Gemeinsame Hilfsfunktionen fuer CLI Commands
// Hauptfunktionen: checkServerHeartbeat
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7blacky7/ollamactx/api"
	"github.com/7blacky7/ollamactx/envconfig"
)

// checkServerHeartbeat - Prueft ob der Ollama Server erreichbar ist
func checkServerHeartbeat(cmd *cobra.Command, _ []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	if err := client.Heartbeat(cmd.Context()); err != nil {
		if !(strings.Contains(err.Error(), " refused") || strings.Contains(err.Error(), "could not connect")) {
			return err
		}

		return fmt.Errorf("could not connect to ollama server at %s, run 'ollama serve' to start it", envconfig.Host())
	}

	return nil
}
