package cli

import (
	"github.com/spf13/cobra"
)

func newPromoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Check promo codes",
	}

	var amount float64
	validate := &cobra.Command{
		Use:     "validate <code>",
		Short:   "Check whether a promo code applies to an order",
		Example: `  sah promo validate GLOW20 --amount 1500`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.container.Promo.Validate(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(res, func() {
				if !res.Valid {
					msg := res.Message
					if msg == "" {
						msg = "code does not apply"
					}
					p.Warn("%s: %s", res.Code, msg)
					return
				}
				p.Success("%s saves %s", res.Code, money(res.Discount))
				p.Field("You pay", money(amount-res.Discount))
			})
		},
	}
	validate.Flags().Float64Var(&amount, "amount", 0, "Order amount before discount")
	validate.MarkFlagRequired("amount")

	cmd.AddCommand(validate)
	return cmd
}
