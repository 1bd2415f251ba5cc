// cmd_confirm.go - Interaktive Bestaetigung vor dem Schreiben
// Hauptfunktionen: confirmApply, confirmLine, applyPrompt
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/7blacky7/ollamactx/policy"
)

// stdinLines - Gemeinsamer Reader fuer den Zeilen-Fallback, damit
// gepufferte Eingaben zwischen mehreren Prompts nicht verloren gehen
var stdinLines = bufio.NewReader(os.Stdin)

// confirmAnswer - Antwort des Benutzers auf den Bestaetigungs-Prompt
type confirmAnswer int

const (
	answerApply confirmAnswer = iota
	answerDecline
	answerApplyAll
)

// applyPrompt - Baut den Prompt-Text fuer eine geplante Aktion
func applyPrompt(name string, action policy.Action) string {
	if action.Destination == name {
		return fmt.Sprintf("update '%s' with num_ctx %d (%s)?", name, action.ContextLength, action.Reason)
	}

	return fmt.Sprintf("create '%s' from '%s' with num_ctx %d (%s)?", action.Destination, name, action.ContextLength, action.Reason)
}

// confirmApply - Fragt vor dem Schreiben eines Modells nach.
// Einzeltasten-Prompt im Raw-Mode; 'a' bestaetigt alle weiteren Modelle,
// jede andere Taste ueberspringt das Modell.
func confirmApply(name string, action policy.Action) (confirmAnswer, error) {
	prompt := applyPrompt(name, action)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Kein Terminal, z.B. stdin aus einer Pipe
		return confirmLine(stdinLines, prompt)
	}
	defer term.Restore(fd, oldState)

	fmt.Fprintf(os.Stderr, "%s (\033[1my\033[0m/n/a) ", prompt)

	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return answerDecline, err
	}

	switch buf[0] {
	case 'Y', 'y', 13:
		fmt.Fprintf(os.Stderr, "yes\r\n")
		return answerApply, nil
	case 'A', 'a':
		fmt.Fprintf(os.Stderr, "all\r\n")
		return answerApplyAll, nil
	default:
		fmt.Fprintf(os.Stderr, "no\r\n")
		return answerDecline, nil
	}
}

// confirmLine - Zeilenbasierter Fallback ohne Raw-Mode
func confirmLine(r *bufio.Reader, prompt string) (confirmAnswer, error) {
	fmt.Fprintf(os.Stderr, "%s (y/n/a) ", prompt)

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return answerDecline, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "":
		return answerApply, nil
	case "a", "all":
		return answerApplyAll, nil
	default:
		return answerDecline, nil
	}
}
