// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"freshstock/internal/core/id"
	"freshstock/internal/infrastructure/storage/postgres"
	"freshstock/pkg/logger"
	"freshstock/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedDemoData(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	// 1. Warehouse
	warehouseID, err := seedCatalogRow(ctx, pool, `
		INSERT INTO cat_warehouses (id, code, name, location, version)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (code) DO NOTHING
	`, "cat_warehouses", "WH-001", "Central Distribution Center", "Osasco, SP")
	if err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}

	// 2. Managers
	managerIDs := make(map[string]id.ID)
	managers := []struct {
		code     string
		name     string
		username string
		email    string
	}{
		{"MG-001", "Lena Ortiz", "lortiz", "lortiz@freshstock.io"},
		{"MG-002", "Bruno Tavares", "btavares", "btavares@freshstock.io"},
	}
	for _, m := range managers {
		mid, err := seedCatalogRow(ctx, pool, `
			INSERT INTO cat_managers (id, code, name, username, email, version)
			VALUES ($1, $2, $3, $4, $5, 1)
			ON CONFLICT (code) DO NOTHING
		`, "cat_managers", m.code, m.name, m.username, m.email)
		if err != nil {
			return fmt.Errorf("seed manager %s: %w", m.code, err)
		}
		managerIDs[m.code] = mid
	}

	// 3. Sections, one per storage category
	sectionIDs := make(map[string]id.ID)
	sections := []struct {
		code        string
		name        string
		category    string
		maxBatches  int
		managerCode string
	}{
		{"SC-001", "Fresh produce", "fresh", 200, "MG-001"},
		{"SC-002", "Chilled goods", "chilled", 150, "MG-001"},
		{"SC-003", "Frozen goods", "frozen", 100, "MG-002"},
	}
	for _, s := range sections {
		sid, err := seedCatalogRow(ctx, pool, `
			INSERT INTO cat_sections (id, code, name, warehouse_id, manager_id, category, max_batches, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
			ON CONFLICT (code) DO NOTHING
		`, "cat_sections", s.code, s.name, warehouseID, managerIDs[s.managerCode], s.category, s.maxBatches)
		if err != nil {
			return fmt.Errorf("seed section %s: %w", s.code, err)
		}
		sectionIDs[s.category] = sid
	}

	// 4. Products
	productIDs := make(map[string]id.ID)
	products := []struct {
		code     string
		name     string
		brand    string
		category string
	}{
		{"PR-00001", "Whole Milk 1L", "Campo Belo", "chilled"},
		{"PR-00002", "Natural Yogurt 170g", "Dale", "chilled"},
		{"PR-00003", "Minas Cheese 500g", "Serra Azul", "chilled"},
		{"PR-00004", "Chicken Breast 1kg", "Granja Sul", "frozen"},
		{"PR-00005", "Ice Cream 2L", "Gelato Rei", "frozen"},
		{"PR-00006", "Lettuce Head", "Horta Viva", "fresh"},
		{"PR-00007", "Tomato 1kg", "Horta Viva", "fresh"},
	}
	for _, p := range products {
		pid, err := seedCatalogRow(ctx, pool, `
			INSERT INTO cat_products (id, code, name, brand, category, version)
			VALUES ($1, $2, $3, $4, $5, 1)
			ON CONFLICT (code) DO NOTHING
		`, "cat_products", p.code, p.name, p.brand, p.category)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.code, err)
		}
		productIDs[p.code] = pid
	}

	// 5. Buyers
	buyers := []struct {
		code     string
		name     string
		username string
	}{
		{"BY-001", "Ana Souza", "asouza"},
		{"BY-002", "Pedro Lima", "plima"},
	}
	for _, b := range buyers {
		if _, err := seedCatalogRow(ctx, pool, `
			INSERT INTO cat_buyers (id, code, name, username, version)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (code) DO NOTHING
		`, "cat_buyers", b.code, b.name, b.username); err != nil {
			return fmt.Errorf("seed buyer %s: %w", b.code, err)
		}
	}

	// 6. One inbound order of chilled stock, received today
	if err := seedInboundOrder(ctx, pool, log, sectionIDs["chilled"], productIDs); err != nil {
		return fmt.Errorf("seed inbound order: %w", err)
	}

	// 7. Position the number sequences past the seeded documents so
	// the server does not hand out numbers that are already taken.
	if err := seedSequences(ctx, pool); err != nil {
		return fmt.Errorf("seed sequences: %w", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}

func seedSequences(ctx context.Context, pool *postgres.Pool) error {
	nums := numerator.New(pool)
	now := time.Now()

	seeded := []struct {
		prefix string
		last   int64
	}{
		{"IB", 1},
		{"BT", 3},
	}
	for _, s := range seeded {
		if err := nums.SetNextNumber(ctx, numerator.DefaultConfig(s.prefix), now, s.last); err != nil {
			return fmt.Errorf("position %s sequence: %w", s.prefix, err)
		}
	}
	return nil
}

// seedCatalogRow inserts one catalog row, returning the id of the
// inserted or already existing row.
func seedCatalogRow(ctx context.Context, pool *postgres.Pool, query, table, code string, args ...any) (id.ID, error) {
	rowID := id.New()

	insertArgs := append([]any{rowID, code}, args...)
	tag, err := pool.Pool.Exec(ctx, query, insertArgs...)
	if err != nil {
		return id.Nil(), err
	}
	if tag.RowsAffected() > 0 {
		return rowID, nil
	}

	err = pool.Pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE code = $1`, table), code,
	).Scan(&rowID)
	if err != nil {
		return id.Nil(), fmt.Errorf("fetch existing %s row: %w", table, err)
	}
	return rowID, nil
}

func seedInboundOrder(ctx context.Context, pool *postgres.Pool, log *logger.Logger, sectionID id.ID, productIDs map[string]id.ID) error {
	year := time.Now().Format("2006")
	orderNumber := fmt.Sprintf("IB-%s-00001", year)

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM doc_inbound_orders WHERE number = $1`, orderNumber,
	).Scan(&existingID)
	if err == nil {
		log.Infow("inbound order already exists", "number", orderNumber, "id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check inbound order exists: %w", err)
	}

	now := time.Now().UTC()
	orderID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO doc_inbound_orders (id, number, date, section_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $5)
	`, orderID, orderNumber, now, sectionID, now)
	if err != nil {
		return fmt.Errorf("insert inbound order: %w", err)
	}

	batches := []struct {
		number      string
		productCode string
		quantity    int
		shelfDays   int
		unitPrice   string
	}{
		{"BT-" + year + "-00001", "PR-00001", 120, 30, "4.50"},
		{"BT-" + year + "-00002", "PR-00002", 80, 45, "2.10"},
		{"BT-" + year + "-00003", "PR-00003", 40, 60, "18.90"},
	}
	for _, b := range batches {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO stock_batches (
				id, number, product_id, inbound_order_id,
				current_temperature, minimum_temperature,
				initial_quantity, current_quantity,
				manufacturing_date, manufacturing_time, due_date,
				unit_price, version
			)
			VALUES ($1, $2, $3, $4, 4.0, 1.0, $5, $5, $6, $6, $7, $8, 1)
		`, id.New(), b.number, productIDs[b.productCode], orderID,
			b.quantity, now, now.AddDate(0, 0, b.shelfDays), b.unitPrice)
		if err != nil {
			return fmt.Errorf("insert batch %s: %w", b.number, err)
		}
	}

	log.Infow("inbound order seeded", "number", orderNumber, "batches", len(batches))
	return nil
}
