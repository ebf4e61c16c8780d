package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/storefront"
)

func (a *app) printProduct(p models.Product) {
	a.printf("%s  %-32s %-12s %-14s %10.2f", p.ID.Hex(), p.Name, p.Brand, p.Category, p.Price)
	if p.Off > 0 {
		a.printf("  -%g%%", p.Off)
	}
	a.printf("\n")
}

func productsCmd(a *app) *cobra.Command {
	var (
		filter models.ProductFilter
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered by category and brand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return errors.New("--pages must be at least 1")
			}
			b := storefront.NewBrowser(a.api)
			b.Reload(cmd.Context(), filter)
			for i := 1; i < pages; i++ {
				if !b.LoadMore(cmd.Context()) {
					break
				}
			}
			products := b.Products()
			if len(products) == 0 {
				a.printf("no products\n")
				return nil
			}
			for _, p := range products {
				a.printProduct(p)
			}
			if b.HasMore() {
				a.printf("more available, pass --pages to load further\n")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "category substring")
	cmd.Flags().StringVar(&filter.Brand, "brand", "", "brand substring")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func randomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show one random product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.api.Random(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				a.printf("no products\n")
				return nil
			}
			a.printProduct(*p)
			return nil
		},
	}
}

func favoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			list, err := a.api.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			a.printFavorites(list)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle PRODUCT_ID",
		Short: "Add or remove a product from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			list, err := a.api.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printFavorites(list)
			return nil
		},
	})
	return cmd
}

func (a *app) printFavorites(list []models.Product) {
	if len(list) == 0 {
		a.printf("no favorites\n")
		return
	}
	for _, p := range list {
		a.printProduct(p)
	}
}
