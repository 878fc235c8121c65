package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// indexColumns get a search index after import. Only columns present in the
// CSV header are indexed.
var indexColumns = []string{
	"project_name_en",
	"area_name_en",
	"master_project_en",
	"unit_number",
	"land_number",
	"building_number",
	"property_type_en",
	"rooms",
	"zone_id",
	"area_id",
	"property_id",
	"project_name_ar",
	"area_name_ar",
	"master_project_ar",
}

const batchSize = 25000

// Importer rebuilds the registry table from a government CSV export. Every
// column is kept as TEXT exactly as exported: the source encodes numeric
// fields inconsistently, and any coercion here would lose data. The table has
// no primary key because the export contains duplicate business keys.
type Importer struct {
	db    *sqlx.DB
	table string
}

// New creates an importer writing to the given table.
func New(db *sqlx.DB, table string) *Importer {
	return &Importer{db: db, table: table}
}

// Summary reports what an import did.
type Summary struct {
	Columns   int
	Rows      int
	EmptyRows int
	Indexes   int
	Elapsed   time.Duration
}

// Import streams the CSV into a freshly created table. The old table is
// dropped first; run imports against a staging table or during a maintenance
// window, never concurrently with lookups.
func (im *Importer) Import(ctx context.Context, csvPath string) (*Summary, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	start := time.Now()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := uniqueColumns(header)

	if err := im.createTable(ctx, columns); err != nil {
		return nil, err
	}

	total, empty, err := im.copyRows(ctx, reader, columns)
	if err != nil {
		return nil, err
	}

	indexes, err := im.createIndexes(ctx, columns)
	if err != nil {
		return nil, err
	}

	if _, err := im.db.ExecContext(ctx, fmt.Sprintf("ANALYZE %s", im.table)); err != nil {
		return nil, fmt.Errorf("failed to analyze table: %w", err)
	}

	return &Summary{
		Columns:   len(columns),
		Rows:      total,
		EmptyRows: empty,
		Indexes:   indexes,
		Elapsed:   time.Since(start),
	}, nil
}

func (im *Importer) createTable(ctx context.Context, columns []string) error {
	if _, err := im.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", im.table)); err != nil {
		return fmt.Errorf("failed to drop old table: %w", err)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%q TEXT", col)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", im.table, strings.Join(defs, ", "))
	if _, err := im.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// copyRows streams rows into the table with COPY, committing in batches so a
// multi-gigabyte export does not pin one transaction.
func (im *Importer) copyRows(ctx context.Context, reader *csv.Reader, columns []string) (total, empty int, err error) {
	var (
		tx   *sqlx.Tx
		stmt *sqlx.Stmt
	)
	openBatch := func() error {
		tx, err = im.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		stmt, err = tx.Preparex(pq.CopyIn(im.table, columns...))
		if err != nil {
			return fmt.Errorf("failed to prepare COPY: %w", err)
		}
		return nil
	}
	closeBatch := func() error {
		if _, err := stmt.ExecContext(ctx); err != nil { // flush COPY
			return fmt.Errorf("failed to flush COPY: %w", err)
		}
		if err := stmt.Close(); err != nil {
			return fmt.Errorf("failed to close COPY: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
		return nil
	}

	if err := openBatch(); err != nil {
		return 0, 0, err
	}

	inBatch := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, empty, fmt.Errorf("failed to read CSV row: %w", err)
		}

		// Pad or trim to the column count.
		for len(row) < len(columns) {
			row = append(row, "")
		}
		row = row[:len(columns)]

		blank := true
		args := make([]interface{}, len(columns))
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			args[i] = cell
			if cell != "" {
				blank = false
			}
		}
		if blank {
			empty++
			continue
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return total, empty, fmt.Errorf("failed to copy row %d: %w", total+1, err)
		}
		total++
		inBatch++

		if inBatch >= batchSize {
			if err := closeBatch(); err != nil {
				return total, empty, err
			}
			log.Printf("   imported %d rows...", total)
			if err := openBatch(); err != nil {
				return total, empty, err
			}
			inBatch = 0
		}
	}

	if err := closeBatch(); err != nil {
		return total, empty, err
	}
	return total, empty, nil
}

func (im *Importer) createIndexes(ctx context.Context, columns []string) (int, error) {
	present := map[string]struct{}{}
	for _, col := range columns {
		present[col] = struct{}{}
	}

	created := 0
	for _, col := range indexColumns {
		if _, ok := present[col]; !ok {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%q)", im.table, col, im.table, col)
		if _, err := im.db.ExecContext(ctx, stmt); err != nil {
			return created, fmt.Errorf("failed to create index on %s: %w", col, err)
		}
		created++
	}
	return created, nil
}

// Verify compares the imported row count against the CSV.
func (im *Importer) Verify(ctx context.Context, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	csvRows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row: %w", err)
		}
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				csvRows++
				break
			}
		}
	}

	var dbRows int
	if err := im.db.GetContext(ctx, &dbRows, fmt.Sprintf("SELECT COUNT(*) FROM %s", im.table)); err != nil {
		return fmt.Errorf("failed to count table rows: %w", err)
	}

	if csvRows != dbRows {
		return fmt.Errorf("row count mismatch: CSV has %d non-empty rows, table has %d", csvRows, dbRows)
	}
	return nil
}

var columnSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
var underscoreRunRe = regexp.MustCompile(`_+`)

// sanitizeColumn makes a CSV header cell safe as a SQL identifier.
func sanitizeColumn(name string) string {
	safe := columnSanitizeRe.ReplaceAllString(strings.TrimSpace(name), "_")
	safe = strings.Trim(underscoreRunRe.ReplaceAllString(safe, "_"), "_")
	safe = strings.ToLower(safe)
	if safe == "" {
		return "col_unknown"
	}
	return safe
}

// uniqueColumns sanitizes the header and disambiguates duplicate names.
func uniqueColumns(header []string) []string {
	seen := map[string]int{}
	columns := make([]string, 0, len(header))
	for _, raw := range header {
		col := sanitizeColumn(raw)
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = fmt.Sprintf("%s_%d", col, n+1)
		} else {
			seen[col] = 0
		}
		columns = append(columns, col)
	}
	return columns
}

// Download fetches the CSV export to a local file. The government portal
// publishes the snapshot as a direct (large) CSV download.
func Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid download URL: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("CSV download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
