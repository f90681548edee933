package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/internal/report"
)

var (
	analyzeReportFile string
	analyzeCountry    string
	analyzeMonth      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the risk analysis for a DQ report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeReportFile == "" {
			return eris.New("--report is required")
		}

		var (
			dq  *model.DQReport
			err error
		)
		if filepath.Ext(analyzeReportFile) == ".xlsx" {
			dq, err = report.LoadWorkbook(analyzeReportFile, analyzeCountry, analyzeMonth, cfg.Engine)
		} else {
			dq, err = report.LoadJSON(analyzeReportFile)
		}
		if err != nil {
			return err
		}

		analysis := engine.Analyze(dq, cfg.Engine)
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal analysis")
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReportFile, "report", "", "DQ report file (.xlsx or .json)")
	analyzeCmd.Flags().StringVar(&analyzeCountry, "country", "", "country code for workbook metadata")
	analyzeCmd.Flags().StringVar(&analyzeMonth, "month", "", "reporting month for workbook metadata")
	rootCmd.AddCommand(analyzeCmd)
}
