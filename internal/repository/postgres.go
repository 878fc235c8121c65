package repository

import (
	"context"
	"fmt"
	"time"

	"unitfinder/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRegistry is the read-only query layer over the imported government
// unit registry. All values are stored as TEXT exactly as exported; the table
// has no primary key because the export contains duplicate business keys.
type PostgresRegistry struct {
	db     *sqlx.DB
	table  string
	rowCap int
}

// NewPostgresRegistry connects to the registry database.
func NewPostgresRegistry(dsn, table string, rowCap, maxConn, maxIdleConn int) (*PostgresRegistry, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to registry database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping registry database: %w", err)
	}

	return &PostgresRegistry{db: db, table: table, rowCap: rowCap}, nil
}

// Close closes the database connection
func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}

// SearchByProject returns records whose project name contains the phrase.
func (r *PostgresRegistry) SearchByProject(ctx context.Context, phrase string) ([]model.RegistryRecord, error) {
	return r.searchOne(ctx, model.ColProjectName, phrase)
}

// SearchByMasterProject returns records whose master project name contains the phrase.
func (r *PostgresRegistry) SearchByMasterProject(ctx context.Context, phrase string) ([]model.RegistryRecord, error) {
	return r.searchOne(ctx, model.ColMasterProject, phrase)
}

// SearchByArea returns records whose area name contains the phrase.
func (r *PostgresRegistry) SearchByArea(ctx context.Context, phrase string) ([]model.RegistryRecord, error) {
	return r.searchOne(ctx, model.ColAreaName, phrase)
}

// SearchAreaWithProject returns records matching both the area and project
// name substrings. Used by the zone-anchored strategy.
func (r *PostgresRegistry) SearchAreaWithProject(ctx context.Context, area, project string) ([]model.RegistryRecord, error) {
	return r.searchTwo(ctx, model.ColAreaName, area, model.ColProjectName, project)
}

// SearchAreaWithMaster returns records matching both the area and master
// project name substrings.
func (r *PostgresRegistry) SearchAreaWithMaster(ctx context.Context, area, master string) ([]model.RegistryRecord, error) {
	return r.searchTwo(ctx, model.ColAreaName, area, model.ColMasterProject, master)
}

// SearchProjectWithMaster returns records matching both the project and
// master project name substrings.
func (r *PostgresRegistry) SearchProjectWithMaster(ctx context.Context, project, master string) ([]model.RegistryRecord, error) {
	return r.searchTwo(ctx, model.ColProjectName, project, model.ColMasterProject, master)
}

// Stats returns the size of the loaded registry snapshot.
func (r *PostgresRegistry) Stats(ctx context.Context) (*model.RegistryStats, error) {
	var rows int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)
	if err := r.db.GetContext(ctx, &rows, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count registry rows: %w", err)
	}

	var cols int
	colQuery := `SELECT COUNT(*) FROM information_schema.columns WHERE table_name = $1`
	if err := r.db.GetContext(ctx, &cols, colQuery, r.table); err != nil {
		return nil, fmt.Errorf("failed to count registry columns: %w", err)
	}

	return &model.RegistryStats{Rows: rows, Columns: cols}, nil
}

func (r *PostgresRegistry) searchOne(ctx context.Context, column, phrase string) ([]model.RegistryRecord, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s ILIKE $1 LIMIT $2",
		r.table, column,
	)
	return r.fetch(ctx, query, "%"+phrase+"%", r.rowCap)
}

func (r *PostgresRegistry) searchTwo(ctx context.Context, colA, valA, colB, valB string) ([]model.RegistryRecord, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s ILIKE $1 AND %s ILIKE $2 LIMIT $3",
		r.table, colA, colB,
	)
	return r.fetch(ctx, query, "%"+valA+"%", "%"+valB+"%", r.rowCap)
}

// fetch runs a SELECT * query and materializes each row into a RegistryRecord.
// Columns are not enumerated on purpose: every column of the snapshot is
// passed through to the caller unchanged.
func (r *PostgresRegistry) fetch(ctx context.Context, query string, args ...interface{}) ([]model.RegistryRecord, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("registry query failed: %w", err)
	}
	defer rows.Close()

	var records []model.RegistryRecord
	for rows.Next() {
		raw := map[string]interface{}{}
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("failed to scan registry row: %w", err)
		}

		fields := make(map[string]string, len(raw))
		for col, val := range raw {
			fields[col] = asString(val)
		}
		records = append(records, model.NewRegistryRecord(fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry row iteration failed: %w", err)
	}

	return records, nil
}

func asString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
