package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"georeduce/internal/export"
)

var outPath string

var reduceCmd = &cobra.Command{
	Use:   "reduce <location>",
	Short: "Reduce a GeoJSON URL or file and write the result",
	Long: `Reduce loads a GeoJSON document from an http(s) URL or a local file (WKT files are
accepted too), reduces the first ring of every polygon and writes the result to stdout,
or to the file given with -o.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		rc, err := a.cfg.ReductionConfig()
		if err != nil {
			return err
		}
		res, err := a.svc.Reduce(cmd.Context(), args[0], rc)
		if err != nil {
			return err
		}

		if outPath == "" {
			_, err = export.Write(cmd.OutOrStdout(), res.Reduced)
			return err
		}
		path, err := export.SaveFile(filepath.Dir(outPath), filepath.Base(outPath), res.Reduced)
		if err != nil {
			return err
		}
		a.log.Info("written", zap.String("path", path))
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d → %d points (%.0f%%)\n", path, res.PointsIn, res.PointsOut, res.Ratio()*100)
		return nil
	},
}

func init() {
	reduceCmd.Flags().StringVarP(&outPath, "output", "o", "", "write to this file instead of stdout")
}
