package system

import (
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger. It starts on stderr; once the TUI
// takes over the terminal the app redirects it to a file via UseLogFile.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
})

// nopCloser is returned when there is no log file to close.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// UseLogFile points the shared logger at path, appending. Returns a closer
// for shutdown. When the file cannot be opened the logger stays on stderr.
func UseLogFile(path string) io.Closer {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		Logger.Warn("log file unavailable, logging to stderr", "path", path, "err", err)
		return nopCloser{}
	}
	Logger.SetOutput(f)
	return f
}
