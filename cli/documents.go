package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"renewals-authorization/service"
	"renewals-authorization/utils"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixtures.yaml>",
	Short: "Load cart and order fixtures into the document store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := service.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		carts, orders, err := service.NewSeedService(a.Store, log.Named("seed")).Seed(cmd.Context(), seed)
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d carts and %d orders\n", carts, orders)
		return err
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search orders by number, customer name or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		form := a.NewForm()
		form.SetSearchQuery(args[0])
		if err := form.Search(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		orders := form.State().FoundOrders
		if len(orders) == 0 {
			fmt.Fprintln(out, "no orders found")
			return nil
		}
		for _, o := range orders {
			fmt.Fprintf(out, "%s\t%s\t%s (%s)\t%s\t%s\t%s\n",
				o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail,
				utils.FormatUSD(o.Total), o.Status, utils.FormatDate(o.CreatedAt))
		}
		return nil
	},
}

var importCartCmd = &cobra.Command{
	Use:   "import-cart <cart-url>",
	Short: "Import a cart from its share URL and print the renewal totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		form := a.NewForm()
		form.SetCartURL(args[0])
		if _, err := form.ImportCart(cmd.Context()); err != nil {
			return errors.New(service.UserMessage(err))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Cart    interface{} `json:"cart"`
			Summary interface{} `json:"summary"`
		}{
			Cart:    form.State().ImportedCart,
			Summary: form.Summary(),
		})
	},
}
