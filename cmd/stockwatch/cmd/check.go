package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockwatch/internal/api/client"
	"stockwatch/internal/config"
	"stockwatch/internal/engine"
	"stockwatch/internal/notify"
	"stockwatch/internal/registry"
	"stockwatch/internal/scrape"
	"stockwatch/internal/store"
	"stockwatch/pkg/logger"
	domain "stockwatch/pkg/types"
)

var checkRemote bool

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Fetch a live stock snapshot for a product URL",
	Long: "Scrapes the given product page once and prints the current price and " +
		"in-stock variants. Stored state is never consulted or modified. With " +
		"--remote the snapshot is requested from a running server instead of " +
		"scraping locally.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "query a running server instead of scraping locally")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	url := args[0]

	var report *domain.StockReport

	if checkRemote {
		api := client.New(viper.GetString("server"))
		remote, err := api.StockByURL(cmd.Context(), url)
		if err != nil {
			return err
		}
		report = remote
	} else {
		local, err := localSnapshot(cmd, url)
		if err != nil {
			return err
		}
		report = local
	}

	fmt.Fprintln(cmd.OutOrStdout(), engine.FormatReport(report))
	return nil
}

// localSnapshot builds a minimal engine (no notifier, no persistence) and
// scrapes the page directly.
func localSnapshot(cmd *cobra.Command, url string) (*domain.StockReport, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New("error", cfg.Logging.Format)

	httpClient := scrape.NewClient(cfg.Poll.FetchTimeout, cfg.Poll.UserAgent)
	sites := scrape.NewSelector(httpClient, cfg.SiteHosts())

	reg := registry.New(store.NewFileStore(cfg.Storage.Path, log), log)
	eng := engine.NewEngine(reg, sites, notify.NewNoOpNotifier(log), "", engine.WithLogger(log))

	return eng.Snapshot(cmd.Context(), url)
}
