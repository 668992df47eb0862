package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newLoyaltyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loyalty",
		Short: "View and redeem loyalty points",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance",
		Short: "Show your points balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := a.container.Loyalty.Balance(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(bal, func() {
				p.Title("Loyalty points")
				p.Field("Points", bal.Points)
				p.Field("Worth", money(bal.RedeemableValue()))
				if bal.Tier != "" {
					p.Field("Tier", bal.Tier)
				}
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show points earned and spent",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := a.container.Loyalty.History(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(hist, func() {
				rows := make([][]string, 0, len(hist))
				for _, t := range hist {
					rows = append(rows, []string{t.CreatedAt, t.Type, strconv.Itoa(t.Points), t.BookingID})
				}
				p.Title("Loyalty history")
				p.Table([]string{"Date", "Type", "Points", "Booking"}, rows)
			})
		},
	})

	var (
		points    int
		bookingID string
	)
	redeem := &cobra.Command{
		Use:   "redeem",
		Short: "Apply points to a booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := a.container.Loyalty.Redeem(cmd.Context(), points, bookingID)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(bal, func() {
				p.Success("Redeemed %d points on %s", points, bookingID)
				p.Field("Remaining", bal.Points)
			})
		},
	}
	redeem.Flags().IntVar(&points, "points", 0, "Points to redeem")
	redeem.Flags().StringVar(&bookingID, "booking", "", "Booking to apply them to")
	redeem.MarkFlagRequired("points")
	redeem.MarkFlagRequired("booking")
	cmd.AddCommand(redeem)

	return cmd
}
