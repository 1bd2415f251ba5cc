// cmd_apply_test.go - Unit Tests fuer den Apply-Lauf
//
// Testet Flag-Validierung, Batch-Isolation, Skip-Regeln, die
// Bestaetigungs-Schleife und die Namensaufloesung.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/ollamactx/api"
	"github.com/7blacky7/ollamactx/policy"
	"github.com/7blacky7/ollamactx/registry"
)

type createCall struct {
	destination string
	from        string
	numCtx      int
}

// fakeRegistry - In-Memory Registry fuer Orchestrator-Tests. Create traegt
// das Ziel in descs ein, damit die Verifikation es wiederfindet.
type fakeRegistry struct {
	names      []string
	namesErr   error
	descs      map[string]registry.Descriptor
	descErrs   map[string]error
	createErrs map[string]error
	created    []createCall
}

func (f *fakeRegistry) Names(context.Context) ([]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return f.names, nil
}

func (f *fakeRegistry) Descriptor(_ context.Context, name string) (registry.Descriptor, error) {
	if err, ok := f.descErrs[name]; ok {
		return registry.Descriptor{}, err
	}
	if d, ok := f.descs[name]; ok {
		return d, nil
	}
	return registry.Descriptor{}, api.StatusError{StatusCode: http.StatusNotFound, ErrorMessage: fmt.Sprintf("model %q not found", name)}
}

func (f *fakeRegistry) Create(_ context.Context, destination, from string, numCtx int) error {
	if err, ok := f.createErrs[from]; ok {
		return err
	}

	f.created = append(f.created, createCall{destination, from, numCtx})

	if f.descs == nil {
		f.descs = map[string]registry.Descriptor{}
	}
	f.descs[destination] = registry.Descriptor{
		Name:       destination,
		Native:     f.descs[from].Native,
		Configured: numCtx,
		Parameters: fmt.Sprintf("num_ctx %d", numCtx),
	}
	return nil
}

// newTestRun baut einen Lauf mit gescripteten Prompt-Antworten; jede
// weitere Bestaetigungs-Anfrage laesst den Test fehlschlagen.
func newTestRun(t *testing.T, reg *fakeRegistry, opts applyOptions, answers ...confirmAnswer) (*applyRun, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	calls := 0

	run := &applyRun{
		registry: reg,
		opts:     opts,
		confirm: func(string, policy.Action) (confirmAnswer, error) {
			if calls >= len(answers) {
				t.Fatal("Unerwarteter Bestaetigungs-Prompt")
			}
			answer := answers[calls]
			calls++
			return answer, nil
		},
		stdout:     &stdout,
		stderr:     &stderr,
		confirmAll: opts.ConfirmAll,
	}
	return run, &stdout, &stderr
}

// TestApplyRunBatch testet die Fehler-Isolation im Batch-Modus
func TestApplyRunBatch(t *testing.T) {
	reg := &fakeRegistry{
		names: []string{"llama3.3:latest", "broken:latest", "mistral:7b"},
		descs: map[string]registry.Descriptor{
			"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072},
			"mistral:7b":      {Name: "mistral:7b", Native: 32768},
		},
		descErrs: map[string]error{
			"broken:latest": api.StatusError{StatusCode: http.StatusInternalServerError, ErrorMessage: "boom"},
		},
	}

	run, stdout, stderr := newTestRun(t, reg, applyOptions{ConfirmAll: true})
	require.NoError(t, run.run(context.Background()))

	require.Len(t, reg.created, 2)
	assert.Equal(t, createCall{"llama3.3:latest", "llama3.3:latest", 131072}, reg.created[0])
	assert.Equal(t, createCall{"mistral:7b", "mistral:7b", 32768}, reg.created[1])

	assert.Contains(t, stdout.String(), "updated 'llama3.3:latest' with num_ctx 131072 (native context)")
	assert.Contains(t, stdout.String(), "2 applied, 0 skipped, 0 declined, 1 failed")
	assert.Contains(t, stderr.String(), "broken:latest")
}

// TestApplyRunSkipsConfigured testet die Skip-Regel fuer gesetzte num_ctx
func TestApplyRunSkipsConfigured(t *testing.T) {
	newReg := func() *fakeRegistry {
		return &fakeRegistry{
			names: []string{"llama3.3:latest"},
			descs: map[string]registry.Descriptor{
				"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072, Configured: 4096},
			},
		}
	}

	t.Run("Ohne Force", func(t *testing.T) {
		reg := newReg()
		run, stdout, _ := newTestRun(t, reg, applyOptions{ConfirmAll: true})
		require.NoError(t, run.run(context.Background()))

		assert.Empty(t, reg.created)
		assert.Contains(t, stdout.String(), "num_ctx already set to 4096")
	})

	t.Run("Mit Force", func(t *testing.T) {
		reg := newReg()
		opts := applyOptions{ConfirmAll: true}
		opts.Policy.ForceUpdate = true

		run, _, _ := newTestRun(t, reg, opts)
		require.NoError(t, run.run(context.Background()))

		require.Len(t, reg.created, 1)
		assert.Equal(t, createCall{"llama3.3:latest", "llama3.3:latest", 131072}, reg.created[0])
	})

	t.Run("Auto-Name ignoriert gesetzte Werte", func(t *testing.T) {
		reg := newReg()
		opts := applyOptions{ConfirmAll: true}
		opts.Policy.Naming = policy.NamingAuto

		run, _, _ := newTestRun(t, reg, opts)
		require.NoError(t, run.run(context.Background()))

		require.Len(t, reg.created, 1)
		assert.Equal(t, createCall{"llama3.3:128k_num_ctx", "llama3.3:latest", 131072}, reg.created[0])
	})
}

// TestApplyRunSkipsWithoutMetadata testet den Skip bei fehlender Kontextlaenge
func TestApplyRunSkipsWithoutMetadata(t *testing.T) {
	reg := &fakeRegistry{
		names: []string{"embedder:latest"},
		descs: map[string]registry.Descriptor{
			"embedder:latest": {Name: "embedder:latest"},
		},
	}

	run, stdout, _ := newTestRun(t, reg, applyOptions{ConfirmAll: true})
	require.NoError(t, run.run(context.Background()))

	assert.Empty(t, reg.created)
	assert.Contains(t, stdout.String(), "no context length in model metadata")
	assert.Contains(t, stdout.String(), "0 applied, 1 skipped, 0 declined, 0 failed")
}

// TestApplyRunDecline testet das Ablehnen einzelner Modelle
func TestApplyRunDecline(t *testing.T) {
	reg := &fakeRegistry{
		names: []string{"llama3.3:latest", "mistral:7b"},
		descs: map[string]registry.Descriptor{
			"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072},
			"mistral:7b":      {Name: "mistral:7b", Native: 32768},
		},
	}

	run, stdout, _ := newTestRun(t, reg, applyOptions{}, answerDecline, answerApply)
	require.NoError(t, run.run(context.Background()))

	require.Len(t, reg.created, 1)
	assert.Equal(t, "mistral:7b", reg.created[0].destination)

	assert.Contains(t, stdout.String(), "skipped 'llama3.3:latest'")
	assert.Contains(t, stdout.String(), "1 applied, 0 skipped, 1 declined, 0 failed")
}

// TestApplyRunConfirmAll testet das Einrasten der Antwort 'all'
func TestApplyRunConfirmAll(t *testing.T) {
	reg := &fakeRegistry{
		names: []string{"a:latest", "b:latest", "c:latest"},
		descs: map[string]registry.Descriptor{
			"a:latest": {Name: "a:latest", Native: 8192},
			"b:latest": {Name: "b:latest", Native: 8192},
			"c:latest": {Name: "c:latest", Native: 8192},
		},
	}

	// Nur eine Antwort gescriptet: alles danach darf nicht mehr fragen
	run, _, _ := newTestRun(t, reg, applyOptions{}, answerApplyAll)
	require.NoError(t, run.run(context.Background()))

	assert.Len(t, reg.created, 3)
}

// TestApplyRunEmptyRegistry testet den Abbruch bei leerer Registry
func TestApplyRunEmptyRegistry(t *testing.T) {
	run, _, _ := newTestRun(t, &fakeRegistry{}, applyOptions{ConfirmAll: true})

	err := run.run(context.Background())
	require.EqualError(t, err, "no models found")
}

// TestApplyRunSingleNotFound testet Vorschlaege bei unbekannten Modellen
func TestApplyRunSingleNotFound(t *testing.T) {
	reg := &fakeRegistry{
		names: []string{"llama3.3:latest", "mistral:7b"},
	}

	t.Run("Mit Vorschlag", func(t *testing.T) {
		run, _, _ := newTestRun(t, reg, applyOptions{Model: "lama3.3:latest", ConfirmAll: true})

		err := run.run(context.Background())
		require.EqualError(t, err, "model 'lama3.3:latest' not found, did you mean 'llama3.3:latest'?")
	})

	t.Run("Ohne Vorschlag", func(t *testing.T) {
		run, _, _ := newTestRun(t, reg, applyOptions{Model: "zzzz", ConfirmAll: true})

		err := run.run(context.Background())
		require.EqualError(t, err, "model 'zzzz' not found")
	})
}

// TestApplyRunSingleCreateError testet, dass Create-Fehler im
// Einzelmodus den Lauf beenden
func TestApplyRunSingleCreateError(t *testing.T) {
	reg := &fakeRegistry{
		descs: map[string]registry.Descriptor{
			"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072},
		},
		createErrs: map[string]error{
			"llama3.3:latest": api.StatusError{StatusCode: http.StatusInternalServerError, ErrorMessage: "disk full"},
		},
	}

	run, _, _ := newTestRun(t, reg, applyOptions{Model: "llama3.3:latest", ConfirmAll: true})

	err := run.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// TestApplyRunVerificationWarning testet, dass eine fehlgeschlagene
// Verifikation den Lauf nicht kippt
func TestApplyRunVerificationWarning(t *testing.T) {
	reg := &fakeRegistry{
		descs: map[string]registry.Descriptor{
			"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072},
		},
		descErrs: map[string]error{
			"llama3.3:128k_num_ctx": api.StatusError{StatusCode: http.StatusInternalServerError, ErrorMessage: "boom"},
		},
	}

	opts := applyOptions{Model: "llama3.3:latest", ConfirmAll: true}
	opts.Policy.Naming = policy.NamingAuto

	run, stdout, stderr := newTestRun(t, reg, opts)
	require.NoError(t, run.run(context.Background()))

	require.Len(t, reg.created, 1)
	assert.Contains(t, stdout.String(), "created 'llama3.3:128k_num_ctx' from 'llama3.3:latest'")
	assert.Contains(t, stderr.String(), "Warning: could not verify 'llama3.3:128k_num_ctx'")
}

// TestApplyRunCustomName testet den Einzelmodus mit --output-name
func TestApplyRunCustomName(t *testing.T) {
	reg := &fakeRegistry{
		descs: map[string]registry.Descriptor{
			"llama3.3:latest": {Name: "llama3.3:latest", Native: 131072},
		},
	}

	opts := applyOptions{Model: "llama3.3:latest", ConfirmAll: true}
	opts.Policy.Naming = policy.NamingCustom
	opts.Policy.CustomName = "pinned:128k"
	opts.Policy.MaxContextCap = 8192

	run, stdout, _ := newTestRun(t, reg, opts)
	require.NoError(t, run.run(context.Background()))

	require.Len(t, reg.created, 1)
	assert.Equal(t, createCall{"pinned:128k", "llama3.3:latest", 8192}, reg.created[0])

	// Verifikation zeigt die Parameter des neuen Eintrags
	assert.Contains(t, stdout.String(), "created 'pinned:128k' from 'llama3.3:latest' with num_ctx 8192 (capped at maximum)")
	assert.Contains(t, stdout.String(), "Parameters")
	assert.Contains(t, stdout.String(), "num_ctx")
}

// TestParseApplyFlags testet die Flag-Validierung des Root Commands
func TestParseApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected applyOptions
		wantErr  string
	}{
		{"Ohne Flags", []string{}, applyOptions{}, ""},
		{"Einzelnes Modell", []string{"llama3.3:latest"}, applyOptions{Model: "llama3.3:latest"}, ""},
		{"Yes und Force", []string{"-y", "-f"}, applyOptions{ConfirmAll: true, Policy: policy.Options{ForceUpdate: true}}, ""},
		{"Max Context", []string{"-m", "8k"}, applyOptions{Policy: policy.Options{MaxContextCap: 8192}}, ""},
		{"Set Context", []string{"--set-ctx", "1m"}, applyOptions{Policy: policy.Options{SpecificContext: 1048576}}, ""},
		{"Auto-Name", []string{"-a"}, applyOptions{Policy: policy.Options{Naming: policy.NamingAuto}}, ""},
		{"Output-Name", []string{"-o", "pinned:8k", "llama3.3:latest"},
			applyOptions{Model: "llama3.3:latest", Policy: policy.Options{Naming: policy.NamingCustom, CustomName: "pinned:8k"}}, ""},
		{"Max und Set zusammen", []string{"-m", "8k", "-s", "4096"}, applyOptions{},
			"only one of '--max-ctx' or '--set-ctx' can be specified"},
		{"Auto und Output zusammen", []string{"-a", "-o", "x", "llama3.3"}, applyOptions{},
			"only one of '--auto-name' or '--output-name' can be specified"},
		{"Output ohne Modell", []string{"-o", "pinned:8k"}, applyOptions{},
			"'--output-name' requires a MODEL argument"},
		{"Ungueltige Groesse", []string{"-m", "k"}, applyOptions{}, `invalid context size "k"`},
		{"Null Groesse", []string{"-s", "0"}, applyOptions{}, `context size must be positive, got "0"`},
		{"Ungueltiger Output-Name", []string{"-o", "a/b/c/d", "llama3.3"}, applyOptions{}, `invalid model name "a/b/c/d"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			opts, err := parseApplyFlags(cmd, cmd.Flags().Args())
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}
