// config.go - Haupt-Konfigurationsfunktionen fuer ollamactx
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host des Ollama-Servers zurueck (OLLAMA_HOST)
// - LogLevel: Gibt Log-Level zurueck (OLLAMACTX_DEBUG)
// - Var: Liest Environment-Variablen mit Quote-Trimming
//
// Utility-Funktionen und AsMap sind ausgelagert in config_utils.go.
package envconfig

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Host gibt Scheme und Host des Ollama-Servers zurueck
// Konfigurierbar via OLLAMA_HOST
// Default: http://127.0.0.1:11434
func Host() *url.URL {
	defaultPort := "11434"

	s := strings.TrimSpace(Var("OLLAMA_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
		if s == "ollama.com" {
			scheme, hostport = "https", "ollama.com:443"
		}
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via OLLAMACTX_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("OLLAMACTX_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
