package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func pageFlags(cmd *cobra.Command, page, perPage *int) {
	cmd.Flags().IntVar(page, "page", 1, "page number")
	cmd.Flags().IntVar(perPage, "per-page", 10, "records per page")
}

func (c *cli) pointsCmd() *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "points",
		Short: "List loyalty points records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Session.PointsRecords(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			printPoints(cmd.OutOrStdout(), res)
			return nil
		},
	}
	pageFlags(cmd, &page, &perPage)
	return cmd
}

func (c *cli) couponsCmd() *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "coupons",
		Short: "List coupons owned by the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Session.Coupons(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			printCoupons(cmd.OutOrStdout(), res)
			return nil
		},
	}
	pageFlags(cmd, &page, &perPage)
	return cmd
}

func (c *cli) addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List shipping addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := c.app.Session.Addresses(cmd.Context())
			if err != nil {
				return err
			}
			printAddresses(cmd.OutOrStdout(), addrs)
			return nil
		},
	}
}

// accountCmd loads the three account pages concurrently.
func (c *cli) accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Summarise points, coupons and addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.IsAuthenticated() {
				return errNotSignedIn
			}

			var (
				points  domain.Page[domain.PointsRecord]
				coupons domain.Page[domain.Coupon]
				addrs   []domain.Address
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				points, err = c.app.Session.PointsRecords(ctx, 1, 5)
				return err
			})
			g.Go(func() error {
				var err error
				coupons, err = c.app.Session.Coupons(ctx, 1, 5)
				return err
			})
			g.Go(func() error {
				var err error
				addrs, err = c.app.Session.Addresses(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s := c.app.Session.Snapshot()
			fmt.Fprintf(out, "%s, %d points\n\n", displayName(*s.User), s.User.Points)
			printPoints(out, points)
			fmt.Fprintln(out)
			printCoupons(out, coupons)
			fmt.Fprintln(out)
			printAddresses(out, addrs)
			return nil
		},
	}
}

func printPoints(w io.Writer, p domain.Page[domain.PointsRecord]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPOINTS\tBALANCE\tDESCRIPTION")
	for _, r := range p.Items {
		fmt.Fprintf(tw, "%d\t%+d\t%d\t%s\n", r.ID, r.Points, r.Balance, r.Description)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d of %d, %d records\n", p.Page, max(p.Pages, 1), p.Total)
}

func printCoupons(w io.Writer, p domain.Page[domain.Coupon]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tMIN SPEND\tUSED")
	for _, c := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", c.Code, c.Name, c.MinPurchase, c.IsUsed)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d of %d, %d coupons\n", p.Page, max(p.Pages, 1), p.Total)
}

func printAddresses(w io.Writer, addrs []domain.Address) {
	if len(addrs) == 0 {
		fmt.Fprintln(w, "No saved addresses.")
		return
	}
	for _, a := range addrs {
		mark := " "
		if a.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s, %s: %s %s %s %s\n", mark, a.RecipientName, a.PhoneNumber, a.Province, a.City, a.District, a.DetailedAddress)
	}
}
