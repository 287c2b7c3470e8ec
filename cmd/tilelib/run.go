package main

import (
	"fmt"
	"runtime"

	"github.com/wgdzlh/tilelib"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full merge + chunk pipeline over a data directory",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("sources", "./data/sources", "sources directory with dsm/ and satellite/ subfolders")
	runCmd.Flags().String("processing", "./data/processing", "output directory for mosaics and chunks")
	runCmd.Flags().Float64("color-scale", 0.5, "scale factor for the color mosaic")
	runCmd.Flags().IntP("rows", "r", tilelib.DEFAULT_CHUNK_ROWS, "number of grid rows")
	runCmd.Flags().IntP("cols", "c", tilelib.DEFAULT_CHUNK_COLS, "number of grid columns")
	runCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "tile encoding workers")

	viper.BindPFlag("run.sources", runCmd.Flags().Lookup("sources"))
	viper.BindPFlag("run.processing", runCmd.Flags().Lookup("processing"))
	viper.BindPFlag("run.color-scale", runCmd.Flags().Lookup("color-scale"))
	viper.BindPFlag("run.rows", runCmd.Flags().Lookup("rows"))
	viper.BindPFlag("run.cols", runCmd.Flags().Lookup("cols"))
	viper.BindPFlag("run.workers", runCmd.Flags().Lookup("workers"))
}

func runPipeline(cmd *cobra.Command, args []string) error {
	tb := tilelib.NewTileToolbox(viper.GetString("tmp-dir"))
	err := tb.RunPipeline(tilelib.PipelineConfig{
		SourcesDir:    viper.GetString("run.sources"),
		ProcessingDir: viper.GetString("run.processing"),
		ColorScale:    viper.GetFloat64("run.color-scale"),
		Rows:          viper.GetInt("run.rows"),
		Cols:          viper.GetInt("run.cols"),
		Workers:       viper.GetInt("run.workers"),
	})
	if err != nil {
		return err
	}
	fmt.Println(viper.GetString("run.processing"))
	return nil
}
