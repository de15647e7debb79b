package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stockpilot/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Clave del advisory lock que serializa migraciones de varias instancias.
const migrationLockKey = 7_342_001

var migrationFile = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.(up|down)\.sql$`)

// Migration par up/down de una versión del esquema.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// MigrationStatus estado de una versión en la base.
type MigrationStatus struct {
	Version   int
	Name      string
	AppliedAt *time.Time
}

// Migrator aplica las migraciones embebidas y registra las versiones en schema_migrations.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
	log        *logger.Logger
}

// NewMigrator carga las migraciones embebidas.
func NewMigrator(pool *pgxpool.Pool, log *logger.Logger) (*Migrator, error) {
	migrations, err := LoadMigrations(migrationsFS)
	if err != nil {
		return nil, err
	}
	return &Migrator{pool: pool, migrations: migrations, log: log.Component("migrator")}, nil
}

// LoadMigrations lee los archivos NNNN_nombre.up.sql / .down.sql de fsys (en la raíz o en migrations/).
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	byVersion := map[int]*Migration{}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		m := migrationFile.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		version, _ := strconv.Atoi(m[1])
		body, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("leer %s: %w", path, err)
		}
		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: m[2]}
			byVersion[version] = mig
		} else if mig.Name != m[2] {
			return fmt.Errorf("migración %04d con nombres distintos: %s y %s", version, mig.Name, m[2])
		}
		if m[3] == "up" {
			mig.Up = string(body)
		} else {
			mig.Down = string(body)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	list := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migración %04d_%s sin archivo up", m.Version, m.Name)
		}
		list = append(list, *m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

// Up aplica en orden las migraciones pendientes, cada una en su propia transacción.
// Devuelve cuántas se aplicaron.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied := 0
	for _, mig := range m.migrations {
		done, err := m.apply(ctx, mig)
		if err != nil {
			return applied, err
		}
		if done {
			applied++
			m.log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("migración aplicada")
		}
	}
	return applied, nil
}

// Down revierte la última migración aplicada. false si no había ninguna.
func (m *Migrator) Down(ctx context.Context) (bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return false, err
	}
	var reverted bool
	err := m.inTx(ctx, func(tx pgx.Tx) error {
		var version int
		err := tx.QueryRow(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return fmt.Errorf("leer versión actual: %w", err)
		}
		mig, ok := m.find(version)
		if !ok || mig.Down == "" {
			return fmt.Errorf("migración %04d sin archivo down", version)
		}
		if _, err := tx.Exec(ctx, mig.Down); err != nil {
			return fmt.Errorf("revertir %04d_%s: %w", mig.Version, mig.Name, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
			return fmt.Errorf("desregistrar %04d: %w", version, err)
		}
		reverted = true
		m.log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("migración revertida")
		return nil
	})
	return reverted, err
}

// Status lista todas las migraciones conocidas con su fecha de aplicación (nil si pendiente).
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	rows, err := m.pool.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	appliedAt := map[int]time.Time{}
	for rows.Next() {
		var v int
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, err
		}
		appliedAt[v] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		st := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if at, ok := appliedAt[mig.Version]; ok {
			at := at
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) (bool, error) {
	var applied bool
	err := m.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, mig.Version).Scan(&exists); err != nil {
			return fmt.Errorf("consultar versión %04d: %w", mig.Version, err)
		}
		if exists {
			return nil
		}
		if _, err := tx.Exec(ctx, mig.Up); err != nil {
			return fmt.Errorf("aplicar %04d_%s: %w", mig.Version, mig.Name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, now())`,
			mig.Version, mig.Name,
		); err != nil {
			return fmt.Errorf("registrar %04d: %w", mig.Version, err)
		}
		applied = true
		return nil
	})
	return applied, err
}

// inTx ejecuta fn con el advisory lock de migraciones tomado durante la transacción.
func (m *Migrator) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) find(version int) (Migration, bool) {
	for _, mig := range m.migrations {
		if mig.Version == version {
			return mig, true
		}
	}
	return Migration{}, false
}
