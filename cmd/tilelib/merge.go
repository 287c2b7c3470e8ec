package main

import (
	"fmt"
	"os"

	"github.com/wgdzlh/tilelib"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge multiple raster tiles into one mosaic",
	RunE:  runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceP("input", "i", nil, "input raster files (GeoTIFF)")
	mergeCmd.Flags().StringP("output", "o", "", "output merged raster path")
	mergeCmd.Flags().IntP("bands", "b", 1, "number of bands in the output raster")
	mergeCmd.Flags().Float64P("scale", "s", 1.0, "scale factor (<1 downsamples, >1 upsamples)")
	mergeCmd.Flags().Int("block-size", tilelib.DEFAULT_BLOCK_SIZE, "block size in pixels")
	mergeCmd.Flags().String("resampling", string(tilelib.ResampleBilinear), "resampling method (near|bilinear|cubic|average)")
	mergeCmd.Flags().Int("srid", 0, "target EPSG code (default: first input's CRS)")

	viper.BindPFlag("merge.input", mergeCmd.Flags().Lookup("input"))
	viper.BindPFlag("merge.output", mergeCmd.Flags().Lookup("output"))
	viper.BindPFlag("merge.bands", mergeCmd.Flags().Lookup("bands"))
	viper.BindPFlag("merge.scale", mergeCmd.Flags().Lookup("scale"))
	viper.BindPFlag("merge.block-size", mergeCmd.Flags().Lookup("block-size"))
	viper.BindPFlag("merge.resampling", mergeCmd.Flags().Lookup("resampling"))
	viper.BindPFlag("merge.srid", mergeCmd.Flags().Lookup("srid"))
}

func runMerge(cmd *cobra.Command, args []string) error {
	files := viper.GetStringSlice("merge.input")
	out := viper.GetString("merge.output")
	if len(files) == 0 {
		return fmt.Errorf("at least one input raster is required (use --input)")
	}
	if out == "" {
		return fmt.Errorf("output path is required (use --output)")
	}

	tb := tilelib.NewTileToolbox(viper.GetString("tmp-dir"))
	ret, err := tb.MergeRasters(files, out, tilelib.MergeOptions{
		Bands:       viper.GetInt("merge.bands"),
		ScaleFactor: viper.GetFloat64("merge.scale"),
		BlockSize:   viper.GetInt("merge.block-size"),
		Resampling:  tilelib.ResampleAlg(viper.GetString("merge.resampling")),
		TargetSRID:  viper.GetInt("merge.srid"),
		Progress:    printProgress("blocks merged"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)
	fmt.Println(ret)
	return nil
}

func printProgress(what string) tilelib.ProgressFunc {
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rProgress: %d/%d %s", done, total, what)
	}
}
