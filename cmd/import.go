package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forceImport bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the demo tasks from the remote API",
	Long:  "Imports the demo tasks once. Later runs are skipped unless --force is given.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if forceImport {
			if err := a.importer.Reset(ctx); err != nil {
				return err
			}
		}

		res := <-a.importer.Start(ctx)
		if res.Err != nil {
			return res.Err
		}

		if res.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "tasks were already imported, use --force to import again")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", res.Imported)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&forceImport, "force", false, "import again even if it already ran")
	rootCmd.AddCommand(importCmd)
}
