package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"unitfinder/internal/config"
	"unitfinder/internal/importer"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Default Dubai Pulse direct download for the units export (~830MB).
const defaultCSVURL = "https://www.dubaipulse.gov.ae/dataset/" +
	"85462a5b-08dc-4325-9242-676a0de4afc4/resource/" +
	"7d4deadf-c9bc-47a4-85de-998d0ce38bf3/download/units.csv"

func main() {
	csvPath := flag.String("csv", "", "path to a local units CSV (skips download)")
	csvURL := flag.String("url", defaultCSVURL, "CSV download URL")
	verifyOnly := flag.Bool("verify", false, "only verify an existing import against the CSV")
	keepCSV := flag.Bool("keep-csv", false, "keep the downloaded CSV after import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.GetPostgreSQLDSN())
	if err != nil {
		log.Fatalf("Failed to connect to registry database: %v", err)
	}
	defer db.Close()

	im := importer.New(db, cfg.PostgreSQL.Table)
	ctx := context.Background()

	path := *csvPath
	downloaded := false
	if path == "" {
		path = "units_raw.csv"
		log.Printf("📥 Downloading CSV from %s", *csvURL)
		log.Println("   File is large - this may take a few minutes...")
		if err := importer.Download(ctx, *csvURL, path); err != nil {
			log.Fatalf("Download failed: %v", err)
		}
		downloaded = true
	}

	if *verifyOnly {
		if err := im.Verify(ctx, path); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		log.Println("✅ Row counts match")
		return
	}

	log.Printf("🔄 Importing %s into table %q (all columns as TEXT)", path, cfg.PostgreSQL.Table)
	summary, err := im.Import(ctx, path)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("✅ Import complete")
	log.Printf("   Columns:    %d (all preserved)", summary.Columns)
	log.Printf("   Rows:       %d", summary.Rows)
	log.Printf("   Empty rows: %d (skipped)", summary.EmptyRows)
	log.Printf("   Indexes:    %d", summary.Indexes)
	log.Printf("   Time:       %s", summary.Elapsed.Round(time.Second))

	if err := im.Verify(ctx, path); err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	log.Println("✅ Verified: row counts match")

	if downloaded && !*keepCSV {
		_ = os.Remove(path)
	}
}
