package main

import (
	"context"
	"fmt"

	"github.com/drakos74/devcluster/internal/artifact"
	"github.com/drakos74/devcluster/internal/cluster"
	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/spf13/cobra"
)

var (
	trainK          int
	trainIterations int
	trainFeatures   []string
	trainDataset    string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a k-means model on a dataset and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		path := cfg.Dataset.Path
		if trainDataset != "" {
			path = trainDataset
		}
		if path == "" {
			return fmt.Errorf("no dataset to train on, use --dataset")
		}

		table, err := data.Load(path)
		if err != nil {
			return err
		}
		m, err := cluster.Train(table, trainK, trainIterations, trainFeatures...)
		if err != nil {
			return fmt.Errorf("could not train model: %w", err)
		}

		models, err := artifact.Models(context.Background(), cfg.Model)
		if err != nil {
			return err
		}
		if err := models.Store(model.Key(cfg.Model.Name), m); err != nil {
			return fmt.Errorf("could not store model: %w", err)
		}
		fmt.Printf("stored model '%s' with %d clusters over %d rows\n", cfg.Model.Name, m.K, len(m.Labels))
		return nil
	},
}

func init() {
	trainCmd.Flags().IntVarP(&trainK, "clusters", "k", 5, "number of clusters")
	trainCmd.Flags().IntVar(&trainIterations, "iterations", cluster.DefaultIterations, "maximum k-means iterations")
	trainCmd.Flags().StringSliceVarP(&trainFeatures, "feature", "f", nil, "features to cluster on (default all numeric columns)")
	trainCmd.Flags().StringVar(&trainDataset, "dataset", "", "csv file to train on (default the configured dataset)")
	rootCmd.AddCommand(trainCmd)
}
