package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	cartdomain "github.com/dwikikusuma/honey-storefront/internal/cart/domain"
	"github.com/dwikikusuma/honey-storefront/internal/cart/infra/adapter"
	catalogdomain "github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
	"github.com/spf13/cobra"
)

func parseID(op, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(op, "invalid product id %q", s)
	}
	return id, nil
}

func parseQty(op, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation(op, "invalid quantity %q", s)
	}
	return n, nil
}

func (c *cli) productsCmd() *cobra.Command {
	var filter catalogdomain.ListFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Catalog.ListProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
			for _, p := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Price, p.Stock())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "category name or id")
	cmd.Flags().BoolVar(&filter.Featured, "featured", false, "featured products only")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "maximum number of products")
	return cmd
}

func (c *cli) cartCmd() *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCart(cmd.OutOrStdout(), c.app.Cart.Snapshot())
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add PRODUCT_ID [QUANTITY]",
		Short: "Add a product, looking up its current price and stock",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("cart add", args[0])
			if err != nil {
				return err
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = parseQty("cart add", args[1]); err != nil {
					return err
				}
			}
			p, err := c.app.Catalog.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			cp := adapter.ToCartProduct(p)
			if err := c.app.Cart.AddItem(cmd.Context(), &cp, qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d x %s. Cart total %s.\n", qty, p.Name, c.app.Cart.TotalPrice())
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set PRODUCT_ID QUANTITY",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("cart set", args[0])
			if err != nil {
				return err
			}
			qty, err := parseQty("cart set", args[1])
			if err != nil {
				return err
			}
			if err := c.app.Cart.UpdateQuantity(cmd.Context(), id, qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cart total %s.\n", c.app.Cart.TotalPrice())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("cart remove", args[0])
			if err != nil {
				return err
			}
			return c.app.Cart.RemoveItem(cmd.Context(), id)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Cart.ClearCart(cmd.Context())
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Re-check stock for every line and fix quantities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adj, err := c.app.Cart.RefreshStock(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(adj) == 0 {
				fmt.Fprintln(out, "Cart is up to date.")
				return nil
			}
			for _, a := range adj {
				switch {
				case a.Removed:
					fmt.Fprintf(out, "%s is no longer available and was removed.\n", a.Name)
				case a.NewQuantity != a.OldQuantity:
					fmt.Fprintf(out, "%s: only %d left, quantity lowered from %d.\n", a.Name, a.NewStock, a.OldQuantity)
				default:
					fmt.Fprintf(out, "%s: stock now %d.\n", a.Name, a.NewStock)
				}
			}
			return nil
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Place the order for the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.IsAuthenticated() {
				return errNotSignedIn
			}
			order, err := c.app.Cart.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked out %d items for %s.\n", order.TotalItems(), order.TotalPrice())
			return nil
		},
	}

	cart.AddCommand(show, add, set, remove, clearCmd, refresh, checkout)
	return cart
}

func printCart(w io.Writer, c cartdomain.Cart) {
	if len(c.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", it.ProductID, it.Name, it.UnitPrice, it.Quantity, it.Subtotal())
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d items, total %s\n", c.TotalItems(), c.TotalPrice())
}
