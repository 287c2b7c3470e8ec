package main

import (
	"fmt"

	"github.com/wgdzlh/tilelib"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a merged raster to a single PNG texture",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("input", "i", "", "input raster file (GeoTIFF)")
	exportCmd.Flags().StringP("output", "o", "", "output PNG file")
	exportCmd.Flags().Int("block-size", tilelib.DEFAULT_BLOCK_SIZE, "rows read per block")

	viper.BindPFlag("export.input", exportCmd.Flags().Lookup("input"))
	viper.BindPFlag("export.output", exportCmd.Flags().Lookup("output"))
	viper.BindPFlag("export.block-size", exportCmd.Flags().Lookup("block-size"))
}

func runExport(cmd *cobra.Command, args []string) error {
	in := viper.GetString("export.input")
	out := viper.GetString("export.output")
	if in == "" || out == "" {
		return fmt.Errorf("--input and --output are required")
	}

	tb := tilelib.NewTileToolbox(viper.GetString("tmp-dir"))
	if err := tb.ExportTexturePNG(in, out, viper.GetInt("export.block-size")); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
