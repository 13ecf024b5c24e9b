package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/julianstephens/routinize/internal/backup"
	"github.com/julianstephens/routinize/internal/logger"
	"github.com/julianstephens/routinize/internal/storage"
)

type Context struct {
	Backend     storage.Backend
	Accessor    *storage.Accessor
	Out         io.Writer
	In          io.Reader
	Now         func() time.Time
	BaseContext context.Context
}

// NewContext wires an accessor over backend with stdio and the wall clock.
func NewContext(backend storage.Backend) *Context {
	return &Context{
		Backend:  backend,
		Accessor: storage.NewAccessor(backend),
		Out:      os.Stdout,
		In:       os.Stdin,
		Now:      time.Now,
	}
}

// Ctx returns the context.Context commands run under.
func (c *Context) Ctx() context.Context {
	if c.BaseContext == nil {
		return context.Background()
	}
	return c.BaseContext
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// DataFile returns the on-disk path of file-backed stores.
func (c *Context) DataFile() (string, bool) {
	if c.Backend == nil {
		return "", false
	}
	return FileBackedPath(c.Backend)
}

// PerformAutomaticBackup creates a backup of file-backed stores and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.DataFile()
	if !ok {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Items unwraps a load result, turning an unreadable collection into an
// error for commands that must not act on a partial view.
func Items[T any](res storage.Result[T]) ([]T, error) {
	if res.Err != nil {
		return nil, fmt.Errorf("failed to load data: %w", res.Err)
	}
	return res.Items, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ResolveID finds the id matching ref exactly or as a unique prefix.
func ResolveID(ids []string, ref string, kind string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %s", kind, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}

// IDs collects the ids of any records.
func IDs[T storage.Record](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.GetID()
	}
	return out
}

// ShortID trims a uuid for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
