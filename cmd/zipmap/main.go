package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/zipmap/internal/app"
	"github.com/woozymasta/zipmap/internal/config"
	"github.com/woozymasta/zipmap/internal/logger"
	"github.com/woozymasta/zipmap/internal/output"
	"github.com/woozymasta/zipmap/internal/points"
	"github.com/woozymasta/zipmap/internal/table"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	CSV        string `long:"csv"              env:"ZIPMAP_CSV"        description:"Path to the CSV file" default:"2016_Building_Energy_Benchmarking.csv"`
	Sep        string `long:"sep"              env:"ZIPMAP_SEP"        description:"CSV separator, auto-detected if empty"`
	Sample     int    `long:"sample"           env:"ZIPMAP_SAMPLE"     description:"Maximum number of points to draw, useful for very large files"`
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"       description:"Path to an optional YAML style file"`
	Out        string `short:"o" long:"out"    env:"ZIPMAP_OUT"        description:"Write the map to this file instead of a temporary one"`
	NoBrowser  bool   `long:"no-browser"       env:"ZIPMAP_NO_BROWSER" description:"Do not open the map in a browser"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Open a temporary HTML map of Latitude, Longitude and ZipCode"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
	}

	sep, err := table.ParseSeparator(opts.Sep)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --sep")
	}

	// --sample 0 draws nothing, only an absent flag disables the cap
	var sample *int
	if sampleGiven(parser.FindOptionByLongName("sample")) {
		sample = &opts.Sample
	}

	var open output.Opener
	if !opts.NoBrowser {
		open = output.Open
	}

	path, err := app.Run(app.Params{
		Config: cfg,
		CSV:    opts.CSV,
		Sep:    sep,
		Sample: sample,
		Seed:   points.DefaultSeed,
		Out:    opts.Out,
		Open:   open,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.CSV).Msg("Failed to build map")
	}

	kind := "temporary file"
	if opts.Out != "" {
		kind = "file"
	}

	if opts.NoBrowser {
		fmt.Printf("Map written, %s: %s\n", kind, path)
		return
	}
	fmt.Printf("Map opened in browser, %s: %s\n", kind, path)
}

// sampleGiven reports whether the option came from the command line or its
// environment variable; go-flags marks env values as defaults.
func sampleGiven(opt *flags.Option) bool {
	if opt == nil {
		return false
	}
	if opt.IsSet() {
		return true
	}
	_, ok := os.LookupEnv(opt.EnvKeyWithNamespace())
	return ok && opt.EnvKeyWithNamespace() != ""
}
