package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/drakos74/devcluster/internal/artifact"
	"github.com/drakos74/devcluster/internal/dashboard"
	"github.com/drakos74/devcluster/internal/math"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/drakos74/devcluster/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	describeClusters []int
	describeMode     string
	describeFeatures []string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the statistics of the selected clusters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}

		q := url.Values{}
		for _, c := range describeClusters {
			q.Add("cluster", strconv.Itoa(c))
		}
		q.Set("mode", describeMode)
		q["feature"] = describeFeatures
		req, err := dashboard.ParseRequest(q, true)
		if err != nil {
			return err
		}

		ctx := context.Background()
		models, err := artifact.Models(ctx, cfg.Model)
		if err != nil {
			return err
		}
		service := dashboard.NewService(artifact.NewLoader(cfg.Dataset.Path, models, cfg.Model.Name), storage.NewVoidStorage(), cfg)
		sel, err := service.Describe(ctx, req)
		if err != nil {
			return err
		}
		if sel.Prompt != "" || sel.Warning != "" {
			return fmt.Errorf("%s%s", sel.Prompt, sel.Warning)
		}
		fmt.Printf("clusters %v: %d rows\n", sel.Clusters, sel.Rows)
		printSummary(os.Stdout, sel.Summary, model.NewFormatter(2))
		return nil
	},
}

func printSummary(w io.Writer, summary math.Summary, f model.Formatter) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{""}, math.StatisticNames...))
	for _, d := range summary.Columns {
		row := []string{d.Column}
		for _, s := range d.Statistics() {
			row = append(row, f.Format(s))
		}
		table.Append(row)
	}
	table.Render()
}

func init() {
	describeCmd.Flags().IntSliceVarP(&describeClusters, "cluster", "c", []int{1}, "clusters to describe, starting at 1")
	describeCmd.Flags().StringVar(&describeMode, "mode", string(dashboard.Precomputed), "cluster assignment, precomputed or predict")
	describeCmd.Flags().StringSliceVarP(&describeFeatures, "feature", "f", nil, "features to predict with")
	rootCmd.AddCommand(describeCmd)
}
