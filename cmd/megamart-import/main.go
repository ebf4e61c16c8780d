// Command megamart-import replaces the product catalog with the contents
// of a JSON file holding an array of products.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ViacheslavGIT/MegaMart/internal/config"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
	"github.com/ViacheslavGIT/MegaMart/internal/store/mongostore"
)

func readProducts(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if len(products) == 0 {
		return nil, errors.New("file holds no products")
	}
	return products, nil
}

func run(ctx context.Context, path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	products, err := readProducts(f)
	if err != nil {
		return err
	}
	if err := shop.ValidateProducts(products); err != nil {
		return err
	}
	if dryRun {
		slog.Info("Dry run, nothing written", "products", len(products))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store != "mongo" {
		return errors.New("import writes to MongoDB; unset STORE or set STORE=mongo")
	}
	client, err := mongostore.Connect(ctx, cfg.MongoURL)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	catalog := shop.NewCatalog(mongostore.NewProducts(client.Database(cfg.MongoDB)))
	return catalog.Import(ctx, products)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	var dryRun bool
	cmd := &cobra.Command{
		Use:          "megamart-import FILE",
		Short:        "Replace every product with the ones in FILE",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without touching the database")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}
