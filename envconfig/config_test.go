// config_test.go - Unit Tests fuer die Environment-Konfiguration
//
// Testet Host-Parsing, LogLevel-Mapping und Var-Bereinigung.
package envconfig

import (
	"log/slog"
	"testing"
)

// TestHost testet das Parsen von OLLAMA_HOST
func TestHost(t *testing.T) {
	tests := []struct {
		name, value, expected string
	}{
		{"Leer", "", "http://127.0.0.1:11434"},
		{"Nur Host", "1.2.3.4", "http://1.2.3.4:11434"},
		{"Host und Port", "1.2.3.4:1234", "http://1.2.3.4:1234"},
		{"Hostname", "example.com", "http://example.com:11434"},
		{"HTTP Scheme", "http://example.com", "http://example.com:80"},
		{"HTTPS Scheme", "https://example.com", "https://example.com:443"},
		{"Scheme mit Port", "http://example.com:1234", "http://example.com:1234"},
		{"Mit Pfad", "http://example.com:1234/ollama", "http://example.com:1234/ollama"},
		{"IPv6", "[::1]:1234", "http://[::1]:1234"},
		{"IPv6 ohne Port", "::1", "http://[::1]:11434"},
		{"Quotes", `"1.2.3.4"`, "http://1.2.3.4:11434"},
		{"Whitespace", " 1.2.3.4 ", "http://1.2.3.4:11434"},
		{"Ungueltiger Port", "1.2.3.4:66000", "http://1.2.3.4:11434"},
		{"ollama.com Spezialfall", "ollama.com", "https://ollama.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.value)
			if got := Host().String(); got != tt.expected {
				t.Errorf("Got %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestLogLevel testet das Mapping von OLLAMACTX_DEBUG auf slog-Level
func TestLogLevel(t *testing.T) {
	tests := []struct {
		name, value string
		expected    slog.Level
	}{
		{"Unset", "", slog.LevelInfo},
		{"Null", "0", slog.LevelInfo},
		{"False", "false", slog.LevelInfo},
		{"Eins", "1", slog.LevelDebug},
		{"True", "true", slog.LevelDebug},
		{"Trace", "2", slog.Level(-8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMACTX_DEBUG", tt.value)
			if got := LogLevel(); got != tt.expected {
				t.Errorf("Got %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestVar testet das Bereinigen von Environment-Werten
func TestVar(t *testing.T) {
	tests := []struct {
		name, value, expected string
	}{
		{"Einfach", "value", "value"},
		{"Doppelte Quotes", `"value"`, "value"},
		{"Einfache Quotes", "'value'", "value"},
		{"Whitespace", " value ", "value"},
		{"Quotes und Whitespace", ` "value" `, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMACTX_TEST_VAR", tt.value)
			if got := Var("OLLAMACTX_TEST_VAR"); got != tt.expected {
				t.Errorf("Got %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestAsMap prueft, dass die dokumentierten Variablen enthalten sind
func TestAsMap(t *testing.T) {
	m := AsMap()
	for _, key := range []string{"OLLAMA_HOST", "OLLAMACTX_DEBUG", "HTTP_PROXY"} {
		if _, ok := m[key]; !ok {
			t.Errorf("AsMap enthaelt %q nicht", key)
		}
	}
}
