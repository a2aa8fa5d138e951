package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration directions.
const (
	Up   = "up"
	Down = "down"
)

// Migration is one SQL file from the migrations filesystem.
type Migration struct {
	Name string
	SQL  string
}

// ListMigrations returns the migrations for direction found in dir of fsys.
// Up migrations are ordered ascending by file name and down migrations
// descending, so down undoes the most recent change first. A positive steps
// limits the result to the first steps migrations.
func ListMigrations(fsys fs.FS, dir, direction string, steps int) ([]Migration, error) {
	if direction != Up && direction != Down {
		return nil, fmt.Errorf("unknown migration direction %q (want up or down)", direction)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir %s: %w", dir, err)
	}

	suffix := "_" + direction + ".sql"
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)
	if direction == Down {
		slices.Reverse(names)
	}
	if steps > 0 && steps < len(names) {
		names = names[:steps]
	}

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Name: name, SQL: string(b)})
	}
	return migrations, nil
}

// Migrate applies the migrations for direction in order. Migration files are
// written to be idempotent, so re-running a direction is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir, direction string, steps int, logger *slog.Logger) error {
	migrations, err := ListMigrations(fsys, dir, direction, steps)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		logger.InfoContext(ctx, "no migrations to apply", slog.String("direction", direction))
		return nil
	}

	for _, m := range migrations {
		start := time.Now()
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
		logger.InfoContext(ctx, "migration applied",
			slog.String("migration", m.Name),
			slog.Duration("duration", time.Since(start).Truncate(time.Millisecond)),
		)
	}
	return nil
}
