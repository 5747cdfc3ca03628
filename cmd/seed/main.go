// Standalone seed tool that generates a realistic Indonesian minimarket
// catalog. It writes a catalog JSON file for the in-memory backend and,
// when SEED_TARGET=postgres, inserts the same rows into the products table
// in batches.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rizalw/pricetag/internal/config"
	"github.com/rizalw/pricetag/internal/domain"
	"github.com/rizalw/pricetag/migrations"
	"github.com/rizalw/pricetag/pkg/database"
	"github.com/rizalw/pricetag/pkg/logger"
)

const batchSize = 500

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var nameParts = struct {
	brands   []string
	items    []string
	variants []string
	sizes    []string
}{
	brands:   []string{"Indomilk", "Sosro", "Indofood", "ABC", "Wings", "Mayora", "Garuda", "Ultra", "Sari Roti", "Khong Guan"},
	items:    []string{"Susu UHT", "Teh Botol", "Mie Instan", "Kecap Manis", "Sabun Mandi", "Biskuit", "Kacang", "Susu Kental Manis", "Roti Tawar", "Wafer"},
	variants: []string{"Cokelat", "Original", "Vanila", "Stroberi", "Pedas", "Manis", "Putih", "Keju", "", ""},
	sizes:    []string{"190ml", "450ml", "85g", "370G", "250ml", "135g", "1L", "500g", "", ""},
}

// ean13 appends a valid check digit to a 12-digit body.
func ean13(body string) string {
	sum := 0
	for i, r := range body {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return body + strconv.Itoa((10-sum%10)%10)
}

func generate(n int, rng *rand.Rand) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		plu := fmt.Sprintf("%08d", 10000000+i)
		barcode := ean13(fmt.Sprintf("899%09d", rng.Intn(1_000_000_000)))

		name := nameParts.brands[rng.Intn(len(nameParts.brands))] +
			" " + nameParts.items[rng.Intn(len(nameParts.items))]
		if v := nameParts.variants[rng.Intn(len(nameParts.variants))]; v != "" {
			name += " " + v
		}
		if s := nameParts.sizes[rng.Intn(len(nameParts.sizes))]; s != "" {
			name += " " + s
		}

		price := fmt.Sprintf("Rp %d.%d00", 1+rng.Intn(40), rng.Intn(10))

		p := domain.Product{
			PLU:     plu,
			Barcode: barcode,
			Name:    name,
			Price:   price,
		}
		// leave a few rows sparse to exercise the display fallbacks
		switch rng.Intn(20) {
		case 0:
			p.Name = ""
		case 1:
			p.Price = "-"
		case 2:
			p.Barcode = ""
		}
		products = append(products, p)
	}
	return products
}

func main() {
	log := logger.New("pricetag-seed", getEnv("LOG_LEVEL", "info"))

	count, err := strconv.Atoi(getEnv("SEED_COUNT", "1000"))
	if err != nil || count < 1 {
		log.Error("invalid SEED_COUNT")
		os.Exit(1)
	}
	rng := rand.New(rand.NewSource(42))
	products := generate(count, rng)

	outPath := getEnv("SEED_OUTPUT", "catalog.json")
	if err := writeCatalog(outPath, products); err != nil {
		log.Error("write catalog failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("catalog written", slog.String("path", outPath), slog.Int("products", count))

	if getEnv("SEED_TARGET", "file") != "postgres" {
		return
	}

	if err := seedPostgres(products, log); err != nil {
		log.Error("postgres seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("postgres seeded", slog.Int("products", count))
}

func writeCatalog(path string, products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func seedPostgres(products []domain.Product, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
	}
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}

		batch := &pgx.Batch{}
		for _, p := range products[start:end] {
			batch.Queue(`
				INSERT INTO products (plu, barcode, name, price, image_url)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (plu) DO UPDATE SET
					barcode = EXCLUDED.barcode,
					name = EXCLUDED.name,
					price = EXCLUDED.price,
					image_url = EXCLUDED.image_url,
					updated_at = NOW()`,
				p.PLU, p.Barcode, p.Name, p.Price, p.ImageURL,
			)
		}
		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert batch at %d: %w", start, err)
		}
		log.Info("batch inserted", slog.Int("from", start), slog.Int("to", end))
	}
	return nil
}
