// Command casandra scores a single REIT: it pulls the latest annual filing,
// extracts the property portfolio, gathers climate, carbon and governance
// signals and prints the combined distress scores plus the implied price
// projection as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/jasaka-rm/casandra/pkg/config"
	"github.com/jasaka-rm/casandra/pkg/core/carbon"
	"github.com/jasaka-rm/casandra/pkg/core/climate"
	"github.com/jasaka-rm/casandra/pkg/core/geocode"
	"github.com/jasaka-rm/casandra/pkg/core/governance"
	"github.com/jasaka-rm/casandra/pkg/core/ingest"
	"github.com/jasaka-rm/casandra/pkg/core/pipeline"
	"github.com/jasaka-rm/casandra/pkg/core/projection"
	"github.com/jasaka-rm/casandra/pkg/core/quote"
	"github.com/jasaka-rm/casandra/pkg/models"
)

type output struct {
	Scores      *models.ScoreBundle `json:"scores"`
	Projections *models.Projections `json:"projections,omitempty"`
}

func main() {
	var (
		cikFlag    = flag.String("cik", "", "SEC CIK of the REIT (either -cik or -ticker is required)")
		tickerFlag = flag.String("ticker", "", "ticker symbol, also used for carbon and quote lookups")
		nameFlag   = flag.String("name", "", "company name for the governance news query (defaults to the SEC registrant name)")
		configFlag = flag.String("config", "", "path to a YAML config file")
		noQuote    = flag.Bool("no-quote", false, "skip the live quote and price projection step")
	)
	flag.Parse()

	// Optional; deployments without a .env rely on real env vars.
	_ = godotenv.Load()

	if err := run(*cikFlag, *tickerFlag, *nameFlag, *configFlag, *noQuote); err != nil {
		log.Fatal().Err(err).Msg("scoring run failed")
	}
}

func run(cik, ticker, name, configPath string, noQuote bool) error {
	if cik == "" && ticker == "" {
		return fmt.Errorf("either -cik or -ticker is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}

	edgar := ingest.NewClient(
		ingest.WithUserAgent(cfg.UserAgent),
		ingest.WithHTTPClient(httpClient),
		ingest.WithRequestDelay(cfg.RequestDelay()),
	)

	if cik == "" {
		cik, err = edgar.LookupCIKByTicker(ctx, ticker)
		if err != nil {
			return err
		}
	}
	if name == "" {
		info, err := edgar.FetchCompanyInfo(ctx, cik)
		if err != nil {
			return err
		}
		name = info.Name
		if ticker == "" && len(info.Tickers) > 0 {
			ticker = info.Tickers[0]
		}
	}

	climateScorer := climate.NewScorer(
		geocode.NewClient(cfg.UserAgent, geocode.WithHTTPClient(httpClient)),
		climate.NewOpenMeteoClient("", httpClient),
		climate.NewOpenElevationClient("", httpClient),
	)

	var carbonScorer pipeline.CarbonScorer
	if cfg.CarbonCSV != "" {
		dataset, err := carbon.LoadCSV(cfg.CarbonCSV)
		if err != nil {
			return fmt.Errorf("loading carbon dataset: %w", err)
		}
		carbonScorer = dataset
	} else {
		log.Warn().Msg("no carbon dataset configured, carbon signal will be neutral")
	}

	govScorer := governance.NewScorer(governance.NewGoogleNewsClient("", cfg.UserAgent, httpClient))

	orc := pipeline.New(edgar, climateScorer, carbonScorer, govScorer, cfg.Weights)

	bundle, err := orc.ScoreREIT(ctx, pipeline.Input{
		CIK:           cik,
		Name:          name,
		Ticker:        ticker,
		MaxProperties: cfg.MaxProperties,
	})
	if err != nil {
		return err
	}

	out := output{Scores: bundle}
	if !noQuote && ticker != "" {
		proj, err := orc.ProjectPrices(ctx, bundle, quote.NewClient("", httpClient), projection.Betas(cfg.Betas))
		if err != nil {
			// The scores stand on their own; a quote outage only costs
			// the projection.
			log.Warn().Err(err).Msg("price projection unavailable")
		} else {
			out.Projections = proj
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
