package main

import (
	"os"

	"github.com/wgdzlh/tilelib/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tilelib",
	Short: "Merge geospatial rasters and split them into paired terrain tiles",
	Long: `tilelib merges overlapping elevation and color rasters into seamless
mosaics and splits them into paired PNG tiles for texturing and displacing a
3D terrain mesh.

Examples:
  # Merge elevation tiles into one mosaic
  tilelib merge -i a.tif -i b.tif -o dsm_merged.tif -b 1

  # Merge satellite tiles at half resolution
  tilelib merge -i s1.tif -i s2.tif -o satellite_merged.tif -b 3 -s 0.5

  # Split merged mosaics into a 6x6 grid of paired PNG tiles
  tilelib chunks --dsm dsm_merged.tif --satellite satellite_merged.tif -o ./chunks -r 6 -c 6

  # Run the whole pipeline over a data directory
  tilelib run --sources ./data/sources --processing ./data/processing`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(viper.GetString("log-level"), viper.GetString("log-file"))
	},
}

func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tilelib.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "optional rotated log file path")
	rootCmd.PersistentFlags().String("tmp-dir", "", "directory for temporary warp artifacts")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("tmp-dir", rootCmd.PersistentFlags().Lookup("tmp-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tilelib")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Info("using config file: " + viper.ConfigFileUsed())
	}
}
