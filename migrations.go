package polyblog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded migration files.
func MigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded up migrations in lexical order. Each
// migration file must be idempotent (CREATE ... IF NOT EXISTS) since no
// version ledger is kept.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	entries, err := fs.ReadDir(migrationsFS, "data/sql/migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(migrationsFS, "data/sql/migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
	}
	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
