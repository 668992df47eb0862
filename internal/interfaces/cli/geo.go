package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"salonathome.in/cli/internal/core/domain"
)

func newGeoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Look up addresses and check serviceability",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "lookup <address>",
		Short:   "Geocode an address",
		Example: `  sah geo lookup 12 MG Road, Bengaluru`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.container.Geo.Geocode(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printLocation(a.printer(cmd), loc)
		},
	})

	var lat, lng float64
	reverse := &cobra.Command{
		Use:   "reverse",
		Short: "Find the address at coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.container.Geo.Reverse(cmd.Context(), lat, lng)
			if err != nil {
				return err
			}
			return printLocation(a.printer(cmd), loc)
		},
	}
	reverse.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	reverse.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	reverse.MarkFlagRequired("lat")
	reverse.MarkFlagRequired("lng")
	cmd.AddCommand(reverse)

	return cmd
}

func printLocation(p printer, loc domain.Location) error {
	return p.Result(loc, func() {
		p.Title(loc.Address)
		if loc.City != "" {
			p.Field("City", loc.City)
		}
		if loc.Pincode != "" {
			p.Field("PIN", loc.Pincode)
		}
		p.Field("Coordinates", formatCoords(loc.Latitude, loc.Longitude))
		if loc.Serviceable {
			p.Success("We serve this area")
		} else {
			p.Warn("Not serviceable yet")
		}
	})
}

func formatCoords(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 5, 64) + ", " + strconv.FormatFloat(lng, 'f', 5, 64)
}
