package main

import (
	"time"

	"github.com/spf13/cobra"
)

func ordersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			orders, err := a.api.Orders(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				a.printf("no orders\n")
				return nil
			}
			for _, o := range orders {
				a.printf("%s  %s  %10.2f  %s, %s\n", o.ID.Hex(), o.CreatedAt.Local().Format(time.DateTime), o.Total, o.Address.City, o.Address.Country)
				for _, it := range o.Items {
					name := it.Name
					if it.Product != nil {
						name = it.Product.Name
					}
					a.printf("    %3d x %-32s %10.2f\n", it.Quantity, name, it.Price)
				}
			}
			return nil
		},
	}
}
