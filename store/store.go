// Package store persists pages and per-project theme settings in a local
// SQLite database and packs them into portable project bundles.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"pbe/document"
	"pbe/theme"
)

// ErrNotFound is returned when a requested page or theme record does not
// exist. Callers decide whether that is fatal.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	ref         TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	document    TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS theme_settings (
	project_ref TEXT PRIMARY KEY,
	settings    TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// Store wraps a single SQLite connection. Access is serialized; the editor
// is a single-user tool and mutations are synchronous.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens (creating when needed) the database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open store at %s: %w", path, err)
	}
	return prepare(conn, log)
}

// OpenMemory opens a throwaway in-memory database, used by tests and dry
// runs.
func OpenMemory(log *zap.Logger) (*Store, error) {
	conn, err := sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenMemory)
	if err != nil {
		return nil, fmt.Errorf("unable to open in-memory store: %w", err)
	}
	return prepare(conn, log)
}

func prepare(conn *sqlite.Conn, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to initialize store schema: %w", err)
	}
	return &Store{conn: conn, log: log}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// PageInfo is the listing record for a stored page.
type PageInfo struct {
	Ref         string
	Name        string
	Description string
	UpdatedAt   time.Time
}

// Page is a fully loaded page record.
type Page struct {
	PageInfo
	Doc *document.Document
}

// SavePage upserts a page document. The meta description is derived from the
// document on every save.
func (s *Store) SavePage(ctx context.Context, ref, name string, doc *document.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	err = sqlitex.Execute(s.conn,
		`INSERT INTO pages (ref, name, description, document, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(ref) DO UPDATE SET name=excluded.name, description=excluded.description,
		 document=excluded.document, updated_at=excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{ref, name, doc.Excerpt(), string(data), now()}})
	if err != nil {
		return fmt.Errorf("unable to save page %s: %w", ref, err)
	}
	return nil
}

// LoadPage reads one page by reference. ErrNotFound when it does not exist.
func (s *Store) LoadPage(ctx context.Context, ref string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	var page *Page
	var raw string
	err := sqlitex.Execute(s.conn,
		`SELECT ref, name, description, updated_at, document FROM pages WHERE ref = ?`,
		&sqlitex.ExecOptions{
			Args: []any{ref},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				page = &Page{PageInfo: scanInfo(stmt)}
				raw = stmt.ColumnText(4)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to load page %s: %w", ref, err)
	}
	if page == nil {
		return nil, fmt.Errorf("page %s: %w", ref, ErrNotFound)
	}
	doc, err := document.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", ref, err)
	}
	page.Doc = doc
	return page, nil
}

// DeletePage removes a page. Deleting a page that does not exist is a no-op.
func (s *Store) DeletePage(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	err := sqlitex.Execute(s.conn, `DELETE FROM pages WHERE ref = ?`,
		&sqlitex.ExecOptions{Args: []any{ref}})
	if err != nil {
		return fmt.Errorf("unable to delete page %s: %w", ref, err)
	}
	return nil
}

// ListPages returns all stored pages in natural name order, so "Page 2"
// sorts before "Page 10".
func (s *Store) ListPages(ctx context.Context) ([]PageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	var pages []PageInfo
	err := sqlitex.Execute(s.conn,
		`SELECT ref, name, description, updated_at FROM pages`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			pages = append(pages, scanInfo(stmt))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list pages: %w", err)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Name != pages[j].Name {
			return natural.Less(pages[i].Name, pages[j].Name)
		}
		return pages[i].Ref < pages[j].Ref
	})
	return pages, nil
}

// SaveThemeSettings upserts the per-project theme record.
func (s *Store) SaveThemeSettings(ctx context.Context, projectRef string, settings theme.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("unable to encode theme settings: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	err = sqlitex.Execute(s.conn,
		`INSERT INTO theme_settings (project_ref, settings, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(project_ref) DO UPDATE SET settings=excluded.settings, updated_at=excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{projectRef, string(data), now()}})
	if err != nil {
		return fmt.Errorf("unable to save theme settings for %s: %w", projectRef, err)
	}
	return nil
}

// LoadThemeSettings reads the per-project theme record, filling defaults per
// field. A malformed stored record is logged and replaced by defaults rather
// than failing the load.
func (s *Store) LoadThemeSettings(ctx context.Context, projectRef string) (theme.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.interrupt(ctx)()

	var raw string
	found := false
	err := sqlitex.Execute(s.conn,
		`SELECT settings FROM theme_settings WHERE project_ref = ?`,
		&sqlitex.ExecOptions{
			Args: []any{projectRef},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				raw = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return theme.Settings{}, fmt.Errorf("unable to load theme settings for %s: %w", projectRef, err)
	}
	if !found {
		return theme.Settings{}, fmt.Errorf("theme settings for %s: %w", projectRef, ErrNotFound)
	}

	var settings theme.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn("Stored theme settings are malformed, using defaults",
			zap.String("project", projectRef), zap.Error(err))
		return theme.Settings{}.WithDefaults(), nil
	}
	return settings.WithDefaults(), nil
}

func (s *Store) interrupt(ctx context.Context) func() {
	old := s.conn.SetInterrupt(ctx.Done())
	return func() { s.conn.SetInterrupt(old) }
}

func scanInfo(stmt *sqlite.Stmt) PageInfo {
	info := PageInfo{
		Ref:         stmt.ColumnText(0),
		Name:        stmt.ColumnText(1),
		Description: stmt.ColumnText(2),
	}
	if t, err := time.Parse(time.RFC3339, stmt.ColumnText(3)); err == nil {
		info.UpdatedAt = t
	}
	return info
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
