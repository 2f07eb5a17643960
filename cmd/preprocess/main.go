package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/filters"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/pipeline"
)

const appVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "preprocess",
		Usage:   "adaptive image preprocessing: assess quality, pick a corrective filter, apply it",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "worker goroutines for data-parallel filters (0 = all CPUs)",
			},
		},
		Commands: []*cli.Command{
			assessCommand(),
			enhanceCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newPipeline(c *cli.Context) *pipeline.Pipeline {
	verbose := c.Bool("verbose")
	log := logger.NewConsoleLogger(logger.LevelForVerbosity(verbose))
	return pipeline.New(c.Int("workers"), verbose, log)
}

func assessCommand() *cli.Command {
	return &cli.Command{
		Name:      "assess",
		Usage:     "report quality metrics and the recommended filter without modifying the image",
		ArgsUsage: "<input>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("assess requires exactly one input image", 2)
			}

			p := newPipeline(c)
			assessment, err := p.Assess(c.Args().First())
			if err != nil {
				return err
			}

			m := assessment.Metrics
			fmt.Printf("Resolution:    %dx%d\n", m.Width, m.Height)
			fmt.Printf("Blur variance: %.2f\n", m.BlurVariance)
			fmt.Printf("Brightness:    %.2f\n", m.Brightness)
			fmt.Printf("Contrast:      %.2f\n", m.Contrast)
			fmt.Printf("Noise level:   %.2f\n", m.NoiseLevel)
			if len(assessment.Issues) > 0 {
				fmt.Printf("Issues:        %s\n", strings.Join(assessment.Issues, ", "))
			}
			fmt.Printf("Recommended:   %s (%s)\n", assessment.Recommended, assessment.Rationale)
			return nil
		},
	}
}

func enhanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "enhance",
		Usage:     "apply a corrective filter (assessment-driven unless --filter names one)",
		ArgsUsage: "<input>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Value:   "auto",
				Usage:   "filter to apply: auto, blur, sharpen, laplacian, denoise, clahe, edge",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output path (default: <input>_enhanced.<ext>)",
			},
			&cli.IntFlag{Name: "kernel-size", Usage: "gaussian kernel size (odd)"},
			&cli.Float64Flag{Name: "sigma", Usage: "gaussian standard deviation"},
			&cli.Float64Flag{Name: "strength", Usage: "sharpening/edge strength"},
			&cli.IntFlag{Name: "diameter", Usage: "bilateral neighborhood diameter"},
			&cli.Float64Flag{Name: "sigma-color", Usage: "bilateral color sigma"},
			&cli.Float64Flag{Name: "sigma-space", Usage: "bilateral space sigma"},
			&cli.Float64Flag{Name: "clip-limit", Usage: "CLAHE clip limit"},
			&cli.IntFlag{Name: "tile-grid-size", Usage: "CLAHE tile grid size"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("enhance requires exactly one input image", 2)
			}

			input := c.Args().First()
			output := c.String("output")
			if output == "" {
				output = defaultOutputPath(input)
			}

			params := filters.Params{
				KernelSize:   c.Int("kernel-size"),
				Sigma:        c.Float64("sigma"),
				Strength:     c.Float64("strength"),
				Diameter:     c.Int("diameter"),
				SigmaColor:   c.Float64("sigma-color"),
				SigmaSpace:   c.Float64("sigma-space"),
				ClipLimit:    c.Float64("clip-limit"),
				TileGridSize: c.Int("tile-grid-size"),
			}

			p := newPipeline(c)
			result, err := p.Enhance(c.Context, input, output, c.String("filter"), params)
			if err != nil {
				return err
			}

			fmt.Printf("Applied %s to %dx%d image (%d channels) with %d workers in %dms\n",
				result.Applied, result.Width, result.Height, result.Channels,
				result.Workers, result.Elapsed.Milliseconds())
			if result.Assessment != nil {
				fmt.Printf("Selection rationale: %s\n", result.Assessment.Rationale)
			}
			fmt.Printf("Saved to %s\n", result.OutputPath)
			return nil
		},
	}
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".png"
	}
	return base + "_enhanced" + ext
}
