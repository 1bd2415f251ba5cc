// cmd_apply.go - Apply Command: setzt num_ctx fuer ein oder alle Modelle
// Hauptfunktionen: ApplyHandler, parseApplyFlags, applyRun
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/7blacky7/ollamactx/api"
	"github.com/7blacky7/ollamactx/format"
	"github.com/7blacky7/ollamactx/policy"
	"github.com/7blacky7/ollamactx/registry"
	"github.com/7blacky7/ollamactx/types/model"
)

// ctxRegistry - Registry-Operationen, die ein Apply-Lauf benoetigt
type ctxRegistry interface {
	Names(ctx context.Context) ([]string, error)
	Descriptor(ctx context.Context, name string) (registry.Descriptor, error)
	Create(ctx context.Context, destination, from string, numCtx int) error
}

// applyOptions - Aufbereitete und validierte Flags eines Apply-Laufs
type applyOptions struct {
	// Model waehlt ein einzelnes Modell aus; leer = alle Modelle
	Model      string
	ConfirmAll bool
	Policy     policy.Options
}

// applyOutcome - Ergebnis der Verarbeitung eines einzelnen Modells
type applyOutcome int

const (
	outcomeApplied applyOutcome = iota
	outcomeSkipped
	outcomeDeclined
	outcomeFailed
)

// errConfirm bricht den ganzen Lauf ab, wenn der Prompt selbst fehlschlaegt
var errConfirm = errors.New("could not read confirmation")

// parseApplyFlags - Liest und validiert die Flags des Root Commands.
// Validierungsfehler muessen vor dem ersten Registry-Aufruf auftreten.
func parseApplyFlags(cmd *cobra.Command, args []string) (applyOptions, error) {
	yes, errYes := cmd.Flags().GetBool("yes")
	force, errForce := cmd.Flags().GetBool("force")
	maxCtx, errMax := cmd.Flags().GetString("max-ctx")
	setCtx, errSet := cmd.Flags().GetString("set-ctx")
	autoName, errAuto := cmd.Flags().GetBool("auto-name")
	outputName, errOutput := cmd.Flags().GetString("output-name")

	for _, flagErr := range []error{errYes, errForce, errMax, errSet, errAuto, errOutput} {
		if flagErr != nil {
			return applyOptions{}, errors.New("error retrieving flags")
		}
	}

	if maxCtx != "" && setCtx != "" {
		return applyOptions{}, errors.New("only one of '--max-ctx' or '--set-ctx' can be specified")
	}

	if autoName && outputName != "" {
		return applyOptions{}, errors.New("only one of '--auto-name' or '--output-name' can be specified")
	}

	var opts applyOptions
	if len(args) > 0 {
		opts.Model = args[0]
	}

	if outputName != "" && opts.Model == "" {
		return applyOptions{}, errors.New("'--output-name' requires a MODEL argument")
	}

	opts.ConfirmAll = yes
	opts.Policy.ForceUpdate = force

	if maxCtx != "" {
		n, err := format.ParseContextSize(maxCtx)
		if err != nil {
			return applyOptions{}, err
		}
		if n <= 0 {
			return applyOptions{}, fmt.Errorf("context size must be positive, got %q", maxCtx)
		}
		opts.Policy.MaxContextCap = n
	}

	if setCtx != "" {
		n, err := format.ParseContextSize(setCtx)
		if err != nil {
			return applyOptions{}, err
		}
		if n <= 0 {
			return applyOptions{}, fmt.Errorf("context size must be positive, got %q", setCtx)
		}
		opts.Policy.SpecificContext = n
	}

	switch {
	case autoName:
		opts.Policy.Naming = policy.NamingAuto
	case outputName != "":
		if !model.ParseName(outputName).IsValid() {
			return applyOptions{}, fmt.Errorf("invalid model name %q", outputName)
		}
		opts.Policy.Naming = policy.NamingCustom
		opts.Policy.CustomName = outputName
	}

	return opts, nil
}

// applyRun - Zustand eines Apply-Laufs. confirmAll startet mit dem Wert
// von --yes und kann waehrend des Laufs durch die Antwort 'a' kippen.
type applyRun struct {
	registry ctxRegistry
	opts     applyOptions
	confirm  func(name string, action policy.Action) (confirmAnswer, error)
	stdout   io.Writer
	stderr   io.Writer

	confirmAll bool
}

func newApplyRun(reg ctxRegistry, opts applyOptions) *applyRun {
	return &applyRun{
		registry:   reg,
		opts:       opts,
		confirm:    confirmApply,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		confirmAll: opts.ConfirmAll,
	}
}

// processModel - Verarbeitet ein einzelnes Modell bis einschliesslich
// Verifikation. Fehler werden zurueckgegeben, nicht geloggt; der Aufrufer
// entscheidet ueber Abbruch oder Fortsetzung.
func (r *applyRun) processModel(ctx context.Context, name string) (applyOutcome, error) {
	desc, err := r.registry.Descriptor(ctx, name)
	if err != nil {
		return outcomeFailed, err
	}

	if desc.Native == 0 {
		fmt.Fprintf(r.stdout, "skipping '%s': no context length in model metadata\n", name)
		return outcomeSkipped, nil
	}

	if policy.SkipExisting(desc.Configured, r.opts.Policy) {
		fmt.Fprintf(r.stdout, "skipping '%s': num_ctx already set to %d, use --force to update\n", name, desc.Configured)
		return outcomeSkipped, nil
	}

	action := policy.Resolve(name, desc.Native, r.opts.Policy)

	if !model.ParseName(action.Destination).IsValid() {
		return outcomeFailed, fmt.Errorf("invalid model name %q", action.Destination)
	}

	if !r.confirmAll {
		answer, err := r.confirm(name, action)
		if err != nil {
			return outcomeFailed, fmt.Errorf("%w: %v", errConfirm, err)
		}

		switch answer {
		case answerApplyAll:
			r.confirmAll = true
		case answerDecline:
			fmt.Fprintf(r.stdout, "skipped '%s'\n", name)
			return outcomeDeclined, nil
		}
	}

	if err := r.registry.Create(ctx, action.Destination, name, action.ContextLength); err != nil {
		return outcomeFailed, err
	}

	if action.Destination == name {
		fmt.Fprintf(r.stdout, "updated '%s' with num_ctx %d (%s)\n", name, action.ContextLength, action.Reason)
	} else {
		fmt.Fprintf(r.stdout, "created '%s' from '%s' with num_ctx %d (%s)\n", action.Destination, name, action.ContextLength, action.Reason)
	}

	// Verifikation: Ziel erneut laden und anzeigen. Ein Fehler hier ist
	// nur eine Warnung, das Create selbst war bereits erfolgreich.
	verified, err := r.registry.Descriptor(ctx, action.Destination)
	if err != nil {
		fmt.Fprintf(r.stderr, "Warning: could not verify '%s': %v\n", action.Destination, err)
		return outcomeApplied, nil
	}

	showDescriptor(r.stdout, verified)
	return outcomeApplied, nil
}

// run - Fuehrt den Lauf fuer ein einzelnes Modell oder die ganze Registry aus
func (r *applyRun) run(ctx context.Context) error {
	if r.opts.Model != "" {
		_, err := r.processModel(ctx, r.opts.Model)
		if err != nil && registry.IsNotFound(err) {
			if names, listErr := r.registry.Names(ctx); listErr == nil {
				if suggestion := registry.Closest(r.opts.Model, names); suggestion != "" {
					return fmt.Errorf("model '%s' not found, did you mean '%s'?", r.opts.Model, suggestion)
				}
			}
			return fmt.Errorf("model '%s' not found", r.opts.Model)
		}
		return err
	}

	// Batch: Liste einmal am Anfang erheben, danach sequenziell arbeiten
	names, err := r.registry.Names(ctx)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		return errors.New("no models found")
	}

	var applied, skipped, declined, failed int

	for _, name := range names {
		outcome, err := r.processModel(ctx, name)
		if err != nil {
			if errors.Is(err, errConfirm) {
				return err
			}
			fmt.Fprintf(r.stderr, "Error: could not update '%s': %v\n", name, err)
		}

		switch outcome {
		case outcomeApplied:
			applied++
		case outcomeSkipped:
			skipped++
		case outcomeDeclined:
			declined++
		case outcomeFailed:
			failed++
		}
	}

	fmt.Fprintf(r.stdout, "\n%d applied, %d skipped, %d declined, %d failed\n", applied, skipped, declined, failed)
	return nil
}

// ApplyHandler - Setzt num_ctx fuer das angegebene Modell oder alle Modelle
func ApplyHandler(cmd *cobra.Command, args []string) error {
	opts, err := parseApplyFlags(cmd, args)
	if err != nil {
		return err
	}

	if err := checkServerHeartbeat(cmd, args); err != nil {
		return err
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	return newApplyRun(registry.NewClient(client), opts).run(cmd.Context())
}
