package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/config"
	"bumpbox-be/internal/db"
	"bumpbox-be/internal/logger"

	"go.uber.org/zap"
)

var openDBFunc = db.NewDatabase

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or seed")
	dir := flag.String("dir", "./migrations", "directory holding *.sql migrations")
	flag.Parse()

	if err := migrate(*mode, *dir); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

func migrate(mode, dir string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.DBHost == "" {
		return config.ErrMissingDBConfig
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := openDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return run(database, mode, dir)
}

func run(db *sql.DB, mode, migrationsDir string) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)

	switch mode {
	case "up":
		return runMigrationsUp(db, files)
	case "down":
		return runMigrationsDown(db, files)
	case "seed":
		fixtures, err := catalog.DefaultFixtures()
		if err != nil {
			return err
		}
		return seedCatalog(context.Background(), db, fixtures)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down' or 'seed')", mode)
	}
}

func runMigrationsUp(db *sql.DB, files []string) error {
	log := logger.L()

	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Info("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := db.Exec(extractMigrationPart(string(content), "Up")); err != nil {
			return fmt.Errorf("migration failed (%s): %w", version, err)
		}

		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration version: %w", err)
		}
	}

	log.Info("all migrations applied", zap.Int("files", len(files)))
	return nil
}

func runMigrationsDown(db *sql.DB, files []string) error {
	log := logger.L()

	var lastVersion string
	err := db.QueryRow(`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	filePath := ""
	for _, f := range files {
		if filepath.Base(f) == lastVersion {
			filePath = f
			break
		}
	}
	if filePath == "" {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	log.Info("rolling back migration", zap.String("version", lastVersion))
	if _, err := db.Exec(extractMigrationPart(string(content), "Down")); err != nil {
		return fmt.Errorf("rollback failed (%s): %w", filePath, err)
	}

	if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = $1`, lastVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	return nil
}

// seedCatalog upserts the bundled fixtures, keeping their file order in
// the position column.
func seedCatalog(ctx context.Context, db *sql.DB, f *catalog.Fixtures) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for i, l := range f.Lockers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lockers (id, name, address, city, hours, distance, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				city = EXCLUDED.city,
				hours = EXCLUDED.hours,
				distance = EXCLUDED.distance,
				position = EXCLUDED.position
		`, l.ID, l.Name, l.Address, l.City, l.Hours, l.Distance, i)
		if err != nil {
			return fmt.Errorf("failed to seed locker %s: %w", l.ID, err)
		}
	}

	for i, it := range f.Items {
		var lockerID *string
		if it.LockerID != "" {
			lockerID = &it.LockerID
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (
				id, title, price, condition, description, category,
				image_url, seller_id, seller_name, availability, locker_id, position
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				price = EXCLUDED.price,
				condition = EXCLUDED.condition,
				description = EXCLUDED.description,
				category = EXCLUDED.category,
				image_url = EXCLUDED.image_url,
				seller_id = EXCLUDED.seller_id,
				seller_name = EXCLUDED.seller_name,
				availability = EXCLUDED.availability,
				locker_id = EXCLUDED.locker_id,
				position = EXCLUDED.position
		`,
			it.ID, it.Title, it.Price, string(it.Condition), it.Description, it.Category,
			it.ImageURL, it.SellerID, it.SellerName, string(it.Availability), lockerID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to seed item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.L().Info("catalog seeded",
		zap.Int("lockers", len(f.Lockers)),
		zap.Int("items", len(f.Items)),
	)
	return nil
}

func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	inPart := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
