package cli

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentwire/agent-bridge-go/internal/errors"
)

// Discover resolves the agent executable to an absolute or usable path.
//
// A path containing a separator is used as-is after a stat check. A bare
// name is searched in PATH and then in common installation directories.
// Returns AgentNotFoundError when nothing matches.
func Discover(log *slog.Logger, executable string) (string, error) {
	if strings.ContainsRune(executable, os.PathSeparator) {
		log.Debug("Using explicit agent path", "path", executable)

		if _, err := os.Stat(executable); err == nil {
			return executable, nil
		}

		return "", &errors.AgentNotFoundError{SearchedPaths: []string{executable}}
	}

	searchedPaths := make([]string, 0, 4)

	log.Debug("Searching for agent executable in PATH", "executable", executable)

	if path, err := exec.LookPath(executable); err == nil {
		log.Debug("Found agent executable in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		filepath.Join("/usr/local/bin", executable),
		filepath.Join("/usr/bin", executable),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin", executable))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)

		if _, err := os.Stat(path); err == nil {
			log.Debug("Found agent executable at common path", "path", path)

			return path, nil
		}
	}

	log.Warn("Agent executable not found", "searched_paths", searchedPaths)

	return "", &errors.AgentNotFoundError{SearchedPaths: searchedPaths}
}
