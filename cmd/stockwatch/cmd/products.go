package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockwatch/internal/api/client"
)

var (
	productName string
	customOnly  bool
	operatorID  string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage monitored products on a running server",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored products",
	RunE:  runProductsList,
}

var productsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Register a product URL for monitoring",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsAdd,
}

var productsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop monitoring a custom product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsRemove,
}

var productsResyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Re-establish all stock baselines (operator only)",
	RunE:  runProductsResync,
}

func init() {
	productsListCmd.Flags().BoolVar(&customOnly, "custom", false, "show only runtime-registered products")
	productsAddCmd.Flags().StringVar(&productName, "name", "", "display name (default: scraped page title)")
	productsResyncCmd.Flags().StringVar(&operatorID, "operator", "", "operator identity for the privileged call")

	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsRemoveCmd, productsResyncCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductsList(cmd *cobra.Command, _ []string) error {
	api := client.New(viper.GetString("server"))

	products, err := api.ListProducts(cmd.Context(), customOnly)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSITE\tCUSTOM\tINITIALIZED\tVARIANTS")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%d\n",
			p.ID, p.Name, p.Site, p.Custom, p.Initialized, len(p.Available))
	}
	return w.Flush()
}

func runProductsAdd(cmd *cobra.Command, args []string) error {
	api := client.New(viper.GetString("server"))

	p, err := api.RegisterProduct(cmd.Context(), args[0], productName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "registered %q as %s (site: %s)\n", p.Name, p.ID, p.Site)
	return nil
}

func runProductsRemove(cmd *cobra.Command, args []string) error {
	api := client.New(viper.GetString("server"))

	if err := api.RemoveProduct(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runProductsResync(cmd *cobra.Command, _ []string) error {
	api := client.New(viper.GetString("server"), client.WithOperatorID(operatorID))

	if err := api.Resync(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "resync complete")
	return nil
}
