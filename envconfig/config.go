package envconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrInvalidHostPort = errors.New("invalid port specified in OLLAMA_HOST")

const defaultDirectory = "https://ollama.ai/api/models"

var (
	// Set via OLLAMA_DEBUG in the environment
	Debug bool
	// LogLevel is the OLLAMA_DEBUG verbosity: 0 off, 1 debug, 2 trace
	LogLevel int
	// Set via OLLAMA_DIRECTORY in the environment
	Directory string
	// Set via OLLAMA_MODELS in the environment
	ModelsDir string
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"OLLAMA_DEBUG":     {"OLLAMA_DEBUG", LogLevel, "Show additional debug information (e.g. OLLAMA_DEBUG=1, or 2 for trace)"},
		"OLLAMA_DIRECTORY": {"OLLAMA_DIRECTORY", Directory, "URL of the model directory used by search (default \"" + defaultDirectory + "\")"},
		"OLLAMA_HOST":      {"OLLAMA_HOST", "", "IP Address for the ollama server (default 127.0.0.1:11434)"},
		"OLLAMA_MODELS":    {"OLLAMA_MODELS", ModelsDir, "The path to the models directory"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	LogLevel = 0
	if debug := clean("OLLAMA_DEBUG"); debug != "" {
		if n, err := strconv.Atoi(debug); err == nil {
			LogLevel = max(n, 0)
		} else if d, err := strconv.ParseBool(debug); err == nil {
			if d {
				LogLevel = 1
			}
		} else {
			LogLevel = 1
		}
	}
	Debug = LogLevel > 0

	Directory = clean("OLLAMA_DIRECTORY")
	if Directory == "" {
		Directory = defaultDirectory
	}

	ModelsDir = clean("OLLAMA_MODELS")
	if ModelsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to lookup home directory", "error", err)
			home = "."
		}

		ModelsDir = filepath.Join(home, ".ollama", "models")
	}
}

// Host returns the base URL of the ollama server from OLLAMA_HOST.
// A missing scheme defaults to http and a missing port to 11434,
// or to the scheme's well known port when a scheme is given.
func Host() (*url.URL, error) {
	defaultPort := "11434"

	s := clean("OLLAMA_HOST")
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	// trim trailing slashes
	hostport = strings.TrimRight(hostport, "/")

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
		return nil, ErrInvalidHostPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
	}, nil
}
