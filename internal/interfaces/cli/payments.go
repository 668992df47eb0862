package cli

import (
	"github.com/spf13/cobra"

	"salonathome.in/cli/internal/core/domain"
)

func newPaymentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Complete online payments",
	}

	var v domain.PaymentVerification
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a completed online payment",
		Long: `Submit the order id, payment id and signature the payment page returned
so the backend can confirm the booking.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.container.Payments.Verify(cmd.Context(), v)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(b, func() {
				p.Success("Payment confirmed")
				printBooking(p, b)
			})
		},
	}
	f := verify.Flags()
	f.StringVar(&v.OrderID, "order", "", "Provider order id")
	f.StringVar(&v.PaymentID, "payment", "", "Provider payment id")
	f.StringVar(&v.Signature, "signature", "", "Provider signature")
	f.StringVar(&v.BookingID, "booking", "", "Booking id")
	verify.MarkFlagRequired("order")
	verify.MarkFlagRequired("payment")
	verify.MarkFlagRequired("signature")

	cmd.AddCommand(verify)
	return cmd
}
