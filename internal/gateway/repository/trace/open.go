package trace

import (
	"fmt"
	"strings"
)

// Open picks a backend from dsn: postgres:// or postgresql:// for pgx,
// sqlite:<path> for SQLite, and "" or "memory" for the in-process store.
// The result is fronted by an LRU of cacheSize entries.
func Open(dsn string, cacheSize int) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	var base Store
	switch {
	case dsn == "" || dsn == "memory":
		base = NewMemoryStore()
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := NewPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("trace store: %w", err)
		}
		base = s
	case strings.HasPrefix(dsn, "sqlite:"):
		s, err := NewSQLite(strings.TrimPrefix(dsn, "sqlite:"))
		if err != nil {
			return nil, fmt.Errorf("trace store: %w", err)
		}
		base = s
	default:
		return nil, fmt.Errorf("trace store: unsupported dsn %q", dsn)
	}
	return NewCachedStore(base, cacheSize)
}
