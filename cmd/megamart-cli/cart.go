package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ViacheslavGIT/MegaMart/internal/client"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/storefront"
)

func cartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the local cart",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.printCart()
			return nil
		},
	}

	// mutate applies fn to the cart, saves and prints it.
	mutate := func(fn func(*storefront.Cart)) error {
		fn(&a.state.Cart)
		if err := a.state.Save(); err != nil {
			return err
		}
		a.printCart()
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "add PRODUCT_ID",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.api.Product(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return mutate(func(c *storefront.Cart) { c.Add(*p) })
			},
		},
		&cobra.Command{
			Use:   "dec PRODUCT_ID",
			Short: "Remove one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return mutate(func(c *storefront.Cart) { c.Decrease(args[0]) })
			},
		},
		&cobra.Command{
			Use:   "rm PRODUCT_ID",
			Short: "Remove a product entirely",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return mutate(func(c *storefront.Cart) { c.Remove(args[0]) })
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return mutate(func(c *storefront.Cart) { c.Clear() })
			},
		},
	)
	return cmd
}

func (a *app) printCart() {
	cart := &a.state.Cart
	if len(cart.Items) == 0 {
		a.printf("cart is empty\n")
		return
	}
	for _, it := range cart.Items {
		a.printf("%s  %-32s %3d x %10.2f\n", it.Product.ID.Hex(), it.Product.Name, it.Quantity, it.Product.Price)
	}
	a.printf("%d items, total %s\n", cart.TotalQuantity(), cart.TotalPrice().StringFixed(2))
}

func checkoutRequest(cart *storefront.Cart, addr models.Address) (client.CheckoutRequest, error) {
	if len(cart.Items) == 0 {
		return client.CheckoutRequest{}, errors.New("cart is empty")
	}
	req := client.CheckoutRequest{
		User:     addr,
		Products: make([]client.CheckoutLineItem, 0, len(cart.Items)),
		Total:    cart.TotalPrice().InexactFloat64(),
	}
	for _, it := range cart.Items {
		req.Products = append(req.Products, client.CheckoutLineItem{
			ID:       it.Product.ID.Hex(),
			Name:     it.Product.Name,
			Price:    it.Product.Price,
			Quantity: it.Quantity,
		})
	}
	return req, nil
}

func checkoutCmd(a *app) *cobra.Command {
	var addr models.Address
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			req, err := checkoutRequest(&a.state.Cart, addr)
			if err != nil {
				return err
			}
			order, err := a.api.Checkout(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.state.Cart.Clear()
			if err := a.state.Save(); err != nil {
				return err
			}
			a.printf("order %s placed, total %.2f\n", order.ID.Hex(), order.Total)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr.Name, "name", "", "recipient name")
	f.StringVar(&addr.Phone, "phone", "", "phone number")
	f.StringVar(&addr.Email, "email", "", "contact email")
	f.StringVar(&addr.Country, "country", "", "country")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.Address, "address", "", "street address")
	for _, name := range []string{"name", "phone", "email", "country", "city", "address"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
