package main

import (
	"github.com/spf13/cobra"

	"csconfs/internal/model"
	"csconfs/internal/printers"
)

func addAreas(topLevel *cobra.Command, opts *rootOptions) {
	vo := &viewOptions{}
	var dataset string

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "Print the area tree of a dataset with the selection state of every node",
		Example: `
csconfs areas --dataset core --query "core=all"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			id := cat.DefaultDataset
			if dataset != "" {
				if id, err = model.ParseDatasetID(dataset); err != nil {
					return err
				}
			}
			v, err := vo.view(opts, cat)
			if err != nil {
				return err
			}
			tree, err := cat.AreaTree(id, v.Selection)
			if err != nil {
				return err
			}

			if vo.json {
				return printers.JSON(cmd.OutOrStdout(), tree)
			}
			pp := printers.New()
			pp.Out = cmd.OutOrStdout()
			pp.Tree(tree)
			return nil
		},
	}
	cmd.Flags().StringVar(&vo.query, "query", "", "Selection as a dashboard query string")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset: csrankings or core (default from config)")
	addJSONFlag(cmd, vo)
	topLevel.AddCommand(cmd)
}
