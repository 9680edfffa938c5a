// Command seed-db loads the demo catalog (clients and products) into the
// database, creating the schema first if needed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ventify/salesdesk/internal/postgres"
)

type catalogJSON struct {
	Clients []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"clients"`
	Products []struct {
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Description *string         `json:"description"`
	} `json:"products"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedClients(ctx, pool, catalog); err != nil {
		return errors.Wrap(err, "seed clients")
	}
	if err := seedProducts(ctx, pool, catalog); err != nil {
		return errors.Wrap(err, "seed products")
	}

	return nil
}

func seedClients(ctx context.Context, pool *pgxpool.Pool, catalog catalogJSON) error {
	slog.Info("seeding clients", slog.Int("count", len(catalog.Clients)))

	for _, c := range catalog.Clients {
		tag, err := pool.Exec(ctx,
			`INSERT INTO clients (name, email) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
			c.Name, c.Email,
		)
		if err != nil {
			return errors.Wrapf(err, "insert client %s", c.Email)
		}
		if tag.RowsAffected() > 0 {
			slog.Info("inserted client", slog.String("email", c.Email))
		}
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, catalog catalogJSON) error {
	// Products carry no natural key, so seed only into an empty catalog to
	// keep the command idempotent.
	var existing int64
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&existing); err != nil {
		return errors.Wrap(err, "count products")
	}
	if existing > 0 {
		slog.Info("products already present, skipping", slog.Int64("count", existing))
		return nil
	}

	slog.Info("seeding products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		if _, err := pool.Exec(ctx,
			`INSERT INTO products (name, price, description) VALUES ($1, $2, $3)`,
			p.Name, p.Price, p.Description,
		); err != nil {
			return errors.Wrapf(err, "insert product %s", p.Name)
		}
		slog.Info("inserted product", slog.String("name", p.Name))
	}

	return nil
}
