package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/wgdzlh/tilelib"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Split merged mosaics into paired PNG tiles",
	RunE:  runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)

	chunksCmd.Flags().String("dsm", "", "merged elevation mosaic (GeoTIFF)")
	chunksCmd.Flags().String("satellite", "", "merged color mosaic (GeoTIFF)")
	chunksCmd.Flags().StringP("output", "o", "", "output folder for PNG tiles")
	chunksCmd.Flags().IntP("rows", "r", tilelib.DEFAULT_CHUNK_ROWS, "number of grid rows")
	chunksCmd.Flags().IntP("cols", "c", tilelib.DEFAULT_CHUNK_COLS, "number of grid columns")
	chunksCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "tile encoding workers")

	viper.BindPFlag("chunks.dsm", chunksCmd.Flags().Lookup("dsm"))
	viper.BindPFlag("chunks.satellite", chunksCmd.Flags().Lookup("satellite"))
	viper.BindPFlag("chunks.output", chunksCmd.Flags().Lookup("output"))
	viper.BindPFlag("chunks.rows", chunksCmd.Flags().Lookup("rows"))
	viper.BindPFlag("chunks.cols", chunksCmd.Flags().Lookup("cols"))
	viper.BindPFlag("chunks.workers", chunksCmd.Flags().Lookup("workers"))
}

func runChunks(cmd *cobra.Command, args []string) error {
	dsm := viper.GetString("chunks.dsm")
	sat := viper.GetString("chunks.satellite")
	out := viper.GetString("chunks.output")
	if dsm == "" || sat == "" || out == "" {
		return fmt.Errorf("--dsm, --satellite and --output are all required")
	}

	tb := tilelib.NewTileToolbox(viper.GetString("tmp-dir"))
	err := tb.GenerateChunks(dsm, sat, out, viper.GetInt("chunks.rows"), viper.GetInt("chunks.cols"),
		tilelib.ChunkOptions{
			Workers:  viper.GetInt("chunks.workers"),
			Progress: printProgress("cells read"),
		})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)
	fmt.Println(out)
	return nil
}
