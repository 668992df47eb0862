package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"salonathome.in/cli/internal/core/domain"
)

func newBookingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Create and manage bookings",
	}

	cmd.AddCommand(newBookingsListCommand(a))
	cmd.AddCommand(newBookingsShowCommand(a))
	cmd.AddCommand(newBookingsCreateCommand(a))
	cmd.AddCommand(newBookingsCancelCommand(a))
	cmd.AddCommand(newBookingsRescheduleCommand(a))
	cmd.AddCommand(newBookingsSlotsCommand(a))

	return cmd
}

func bookingRows(list []domain.Booking) [][]string {
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{
			b.ID, string(b.Status), b.Date, b.TimeSlot, money(b.Total), string(b.PaymentMethod),
		})
	}
	return rows
}

func printBooking(p printer, b domain.Booking) {
	p.Field("ID", b.ID)
	p.Field("Status", b.Status)
	p.Field("When", b.Date+" "+b.TimeSlot)
	p.Field("Address", strings.TrimSpace(b.Address.Line1+", "+b.Address.City+" "+b.Address.Pincode))
	p.Field("Total", money(b.Total))
	if b.Discount > 0 {
		p.Field("Discount", money(b.Discount))
	}
	p.Field("Payment", string(b.PaymentMethod))
	if b.PaymentStatus != "" {
		p.Field("Payment status", b.PaymentStatus)
	}
}

func newBookingsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.container.Bookings.List(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(list, func() {
				p.Title("Bookings")
				p.Table([]string{"ID", "Status", "Date", "Slot", "Total", "Payment"}, bookingRows(list))
			})
		},
	}
}

func newBookingsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <booking-id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.container.Bookings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(b, func() {
				p.Title("Booking " + b.ID)
				printBooking(p, b)
			})
		},
	}
}

// parseItems turns "id" or "id:qty" flags into cart items.
func parseItems(specs []string) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(specs))
	for _, spec := range specs {
		id, qty, found := strings.Cut(spec, ":")
		item := domain.CartItem{ServiceID: strings.TrimSpace(id), Quantity: 1}
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", spec)
			}
			item.Quantity = n
		}
		items = append(items, item)
	}
	return items, nil
}

func newBookingsCreateCommand(a *app) *cobra.Command {
	var (
		req      domain.BookingRequest
		services []string
		method   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book one or more services",
		Example: `  sah bookings create --service svc_facial --service svc_wax:2 \
    --line1 "12 MG Road" --city Bengaluru --pincode 560001 \
    --date 2026-11-02 --slot 10:00-11:00 --payment online --promo GLOW20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItems(services)
			if err != nil {
				return err
			}
			pm, err := domain.ParsePaymentMethod(method)
			if err != nil {
				return err
			}
			req.Items = items
			req.PaymentMethod = pm

			res, err := a.container.Payments.Checkout(cmd.Context(), req)
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.Result(res, func() {
				p.Success("Booking %s placed", res.Booking.ID)
				printBooking(p, res.Booking)
				switch {
				case res.Order != nil:
					p.Warn("Complete payment for order %s, then run 'sah payments verify'", res.Order.OrderID)
				case res.FellBackToCash:
					p.Warn("Online payment is unavailable right now; pay in cash at the visit")
				}
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&services, "service", nil, "Service ID, optionally id:quantity (repeatable)")
	f.StringVar(&req.Address.Line1, "line1", "", "Address line 1")
	f.StringVar(&req.Address.Line2, "line2", "", "Address line 2")
	f.StringVar(&req.Address.City, "city", "", "City")
	f.StringVar(&req.Address.Pincode, "pincode", "", "PIN code")
	f.Float64Var(&req.Address.Latitude, "lat", 0, "Latitude of the address")
	f.Float64Var(&req.Address.Longitude, "lng", 0, "Longitude of the address")
	f.StringVar(&req.Date, "date", "", "Visit date (YYYY-MM-DD)")
	f.StringVar(&req.TimeSlot, "slot", "", "Visit slot, as listed by 'sah bookings slots'")
	f.StringVar(&method, "payment", string(domain.PaymentCash), "Payment method: cash or online")
	f.StringVar(&req.PromoCode, "promo", "", "Promo code")
	f.IntVar(&req.RedeemPoints, "redeem", 0, "Loyalty points to redeem")
	f.StringVar(&req.SpecialRequest, "notes", "", "Notes for the professional")
	cmd.MarkFlagRequired("service")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("slot")

	return cmd
}

func newBookingsCancelCommand(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.container.Bookings.Cancel(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(b, func() {
				p.Success("Booking %s cancelled", args[0])
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why you are cancelling")
	return cmd
}

func newBookingsRescheduleCommand(a *app) *cobra.Command {
	var date, slot string

	cmd := &cobra.Command{
		Use:   "reschedule <booking-id>",
		Short: "Move a booking to another date or slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.container.Bookings.Reschedule(cmd.Context(), args[0], date, slot)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(b, func() {
				p.Success("Booking %s moved to %s %s", args[0], date, slot)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot, "slot", "", "New slot")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("slot")
	return cmd
}

func newBookingsSlotsCommand(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List visit slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := a.container.Bookings.AvailableSlots(cmd.Context(), date)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(slots, func() {
				rows := make([][]string, 0, len(slots))
				for _, s := range slots {
					state := "available"
					if !s.Available {
						state = "full"
					}
					rows = append(rows, []string{s.Slot, state})
				}
				p.Title("Slots on " + date)
				p.Table([]string{"Slot", "Status"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("date")
	return cmd
}
