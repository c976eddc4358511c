package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"TeamNewsBot/internal/ports"
)

// FileLedger is an append-only set of published links backed by a flat text file.
type FileLedger struct {
	path   string
	seen   map[string]struct{}
	logger *slog.Logger
}

var _ ports.Ledger = (*FileLedger)(nil)

// OpenFileLedger loads path line by line. A missing file is an empty ledger;
// any other read error is logged and also yields an empty ledger.
func OpenFileLedger(path string, logger *slog.Logger) *FileLedger {
	l := &FileLedger{path: path, seen: map[string]struct{}{}, logger: logger}

	ids, err := readLines(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.error("load posted articles", "path", path, "error", err)
		}
		return l
	}

	for _, id := range ids {
		l.seen[normalizeID(id)] = struct{}{}
	}
	l.debug("ledger loaded", "path", path, "entries", len(l.seen))
	return l
}

// Contains reports whether id was already published. Blank ids are never contained.
func (l *FileLedger) Contains(id string) bool {
	id = normalizeID(id)
	if id == "" {
		return false
	}
	_, ok := l.seen[id]
	return ok
}

// Record adds id in memory first, then appends it to the file. Write failures are logged only.
func (l *FileLedger) Record(id string) {
	id = normalizeID(id)
	if id == "" {
		return
	}
	l.seen[id] = struct{}{}

	if err := appendLine(l.path, id); err != nil {
		l.error("save posted article", "path", l.path, "id", id, "error", err)
	}
}

// Len returns the number of known identifiers.
func (l *FileLedger) Len() int {
	return len(l.seen)
}

// normalizeID is applied identically on load, lookup and append.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return out, nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}

func (l *FileLedger) debug(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

func (l *FileLedger) error(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Error(msg, args...)
	}
}
