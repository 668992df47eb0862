package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"salonathome.in/cli/internal/core/domain"
)

func newCatalogCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse service categories and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(cmd, a)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List service categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(cmd, a)
		},
	})
	cmd.AddCommand(newCatalogServicesCommand(a))

	return cmd
}

func listCategories(cmd *cobra.Command, a *app) error {
	cats, err := a.container.Catalog.Categories(cmd.Context())
	if err != nil {
		return err
	}
	p := a.printer(cmd)
	return p.Result(cats, func() {
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, []string{c.Slug, c.Name})
		}
		p.Title("Categories")
		p.Table([]string{"Slug", "Name"}, rows)
	})
}

func newCatalogServicesCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List bookable services",
		Example: `  sah catalog services
  sah catalog services --category facial`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.container.Catalog.Services(cmd.Context(), category)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.Result(svcs, func() {
				p.Title("Services")
				p.Table([]string{"ID", "Name", "Category", "Price", "Minutes"}, serviceRows(svcs))
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category slug to filter by")
	return cmd
}

func serviceRows(svcs []domain.Service) [][]string {
	rows := make([][]string, 0, len(svcs))
	for _, s := range svcs {
		rows = append(rows, []string{
			s.ID, s.Name, s.Category, money(s.EffectivePrice()), strconv.Itoa(s.DurationMinutes),
		})
	}
	return rows
}
