// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, newRootCmd, appendEnvDocs, versionHandler
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/7blacky7/ollamactx/api"
	"github.com/7blacky7/ollamactx/envconfig"
	"github.com/7blacky7/ollamactx/version"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// initLogging - Initialisiert slog mit Level aus OLLAMACTX_DEBUG
func initLogging() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     envconfig.LogLevel(),
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	})

	slog.SetDefault(slog.New(handler))
}

// versionHandler - Zeigt Client- und Server-Version an
func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Printf("ollamactx version is %s\n", version.Version)

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	serverVersion, err := client.Version(cmd.Context())
	if err != nil {
		fmt.Println("Warning: could not connect to a running Ollama instance")
		return
	}

	fmt.Printf("ollama server version is %s\n", serverVersion)
}

// newRootCmd - Erstellt den Root Command mit allen Apply-Flags
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ollamactx [flags] [MODEL]",
		Short:         "Configure the context window size of Ollama models",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return nil
			}

			return ApplyHandler(cmd, args)
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.Flags().BoolP("force", "f", false, "Update models whose num_ctx is already set")
	rootCmd.Flags().StringP("max-ctx", "m", "", "Cap the context size at this value (e.g. 8k, 131072)")
	rootCmd.Flags().StringP("set-ctx", "s", "", "Set exactly this context size for the selected models")
	rootCmd.Flags().BoolP("auto-name", "a", false, "Write to <model>:<size>_num_ctx instead of overwriting")
	rootCmd.Flags().StringP("output-name", "o", "", "Write to this model name (single model only)")

	return rootCmd
}

// NewCLI - Erstellt das Haupt-CLI mit Root Command und Subcommands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false
	initLogging()

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := newRootCmd()
	listCmd := newListCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["OLLAMA_HOST"], envVars["OLLAMACTX_DEBUG"]}

	for _, cmd := range []*cobra.Command{rootCmd, listCmd} {
		appendEnvDocs(cmd, envs)
	}

	rootCmd.AddCommand(listCmd)

	return rootCmd
}
