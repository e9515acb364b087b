package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/cohortcal/internal/event"
)

// FileFetcher reads cohort snapshots from local files, one per scope.
// Files ending in .ics are decoded as iCalendar; anything else as JSON.
type FileFetcher struct {
	files map[string]snapshotFile
}

type snapshotFile struct {
	path string
	typ  string
}

// NewFileFetcher creates an empty fetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{files: make(map[string]snapshotFile)}
}

// Register binds scope to a snapshot file. iCalendar entries get type study.
func (f *FileFetcher) Register(scope event.Scope, path string) {
	f.RegisterWithType(scope, path, string(event.TypeStudy))
}

// RegisterWithType binds scope to a snapshot file whose iCalendar entries get
// type typ. JSON entries keep their own type field.
func (f *FileFetcher) RegisterWithType(scope event.Scope, path, typ string) {
	f.files[scope.Key()] = snapshotFile{path: path, typ: typ}
}

// Fetch reads and decodes the snapshot registered for scope.
func (f *FileFetcher) Fetch(ctx context.Context, scope event.Scope) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, ok := f.files[scope.Key()]
	if !ok {
		return nil, fmt.Errorf("fetch %s: no snapshot registered", scope)
	}
	return ReadFile(file.path, file.typ)
}

// ReadFile decodes a snapshot file, choosing the decoder by extension.
// typ is applied to iCalendar entries, which carry no type of their own.
func ReadFile(path, typ string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".ics") {
		return DecodeICS(file, typ)
	}
	return Decode(file)
}
