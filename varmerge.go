package main

import (
	"log"
	"os"

	"github.com/nvnieuwk/varmerge/varmerge_api"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:            "varmerge",
		Usage:           "A tool to merge VCF files of independently called samples into one multi-sample VCF",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "nodate",
				Aliases:  []string{"nd"},
				Usage:    "Don't add the current date to the output VCF header",
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "The location to the output VCF file, defaults to stdout. A name ending in .gz is bgzipped",
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file (YAML) describing the FORMAT fields and the merge settings",
				Category: "Optional",
			},
			&cli.IntFlag{
				Name:     "threads",
				Aliases:  []string{"t"},
				Usage:    "The amount of genomic chunks to merge at the same time, defaults to the number of CPUs",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "fail-fast",
				Usage:    "Stop at the first site that can't be merged instead of skipping it",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "mute-warnings",
				Aliases:  []string{"mw"},
				Usage:    "Don't show warnings",
				Category: "Optional",
			},
			&cli.StringSliceFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "An input VCF file to merge, can be given multiple times",
				Required: true,
				Category: "Required",
			},
		},
		Action: func(Cctx *cli.Context) error {
			config := varmerge_api.ReadConfig(Cctx)
			varmerge_api.Execute(Cctx, config) // Merge the VCFs and write to the output file
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}
