package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/internal/report"
	"github.com/fleetfs/dqagent/pkg/metrics"
)

var (
	generateCountries  []string
	generateMonth      string
	generateReportFile string
	generateOutDir     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questionnaires offline for one or more countries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(generateCountries) == 0 {
			return eris.New("at least one --country is required")
		}
		if generateReportFile != "" && len(generateCountries) > 1 {
			return eris.New("--report applies to a single country")
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Generate.MaxConcurrentCountries)

		for _, country := range generateCountries {
			g.Go(func() error {
				gen, err := generateForCountry(ctx, country)
				if err != nil {
					return eris.Wrapf(err, "generate %s", country)
				}
				return emitQuestionnaire(country, gen)
			})
		}

		return g.Wait()
	},
}

func generateForCountry(ctx context.Context, country string) (model.GenerationResponse, error) {
	var (
		dq  *model.DQReport
		err error
	)

	switch {
	case generateReportFile != "" && filepath.Ext(generateReportFile) == ".xlsx":
		dq, err = report.LoadWorkbook(generateReportFile, country, generateMonth, cfg.Engine)
	case generateReportFile != "":
		dq, err = report.LoadJSON(generateReportFile)
	default:
		var month string
		month, err = engine.NormalizeMonth(generateMonth)
		if err != nil {
			return model.GenerationResponse{}, err
		}
		if cfg.Metrics.BaseURL == "" {
			return model.GenerationResponse{}, eris.New("no --report given and metrics store not configured")
		}
		client := metrics.NewClient(cfg.Metrics.BaseURL, cfg.Metrics.Key,
			metrics.WithMaxRetries(cfg.Metrics.MaxRetries),
			metrics.WithRateLimit(cfg.Metrics.RatePerSecond),
		)
		var records []metrics.Record
		records, err = client.FetchRecords(ctx, metrics.FilterQuery{Country: country, Month: month})
		if err == nil {
			dq = report.FromRecords(records, country, month, nil)
		}
	}
	if err != nil {
		return model.GenerationResponse{}, err
	}

	return engine.Generate(dq, country, cfg.Engine, nil), nil
}

func emitQuestionnaire(country string, gen model.GenerationResponse) error {
	data, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal questionnaire")
	}

	if generateOutDir == "" {
		fmt.Println(string(data))
		return nil
	}

	path := filepath.Join(generateOutDir, fmt.Sprintf("%s_questionnaire.json", strings.ToLower(country)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write questionnaire")
	}
	zap.L().Info("questionnaire written",
		zap.String("country", country),
		zap.String("path", path),
		zap.Int("questions", gen.Summary.TotalQuestions),
	)
	return nil
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateCountries, "country", nil, "country code (repeatable)")
	generateCmd.Flags().StringVar(&generateMonth, "month", "", "reporting month (YYYY-MM or YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&generateReportFile, "report", "", "DQ report file (.xlsx or .json) instead of the metrics store")
	generateCmd.Flags().StringVar(&generateOutDir, "out", "", "output directory (default stdout)")
	rootCmd.AddCommand(generateCmd)
}
