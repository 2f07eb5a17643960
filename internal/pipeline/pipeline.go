// Package pipeline wires the loading, assessment, filtering, and saving
// stages into the single enhancement flow the CLI drives.
package pipeline

import (
	"context"
	"time"

	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/filters"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/logger"
	"github.com/gabriel-dinizz/computer-vision-pipeline/internal/quality"
)

// Result summarizes one completed enhancement run.
type Result struct {
	InputPath  string
	OutputPath string
	Applied    filters.Filter
	// Assessment is nil when the filter was chosen explicitly.
	Assessment *quality.Assessment
	Width      int
	Height     int
	Channels   int
	Workers    int
	Elapsed    time.Duration
}

// Pipeline owns the stages. Construction fixes worker count and logging;
// a Pipeline is safe to reuse for multiple images sequentially.
type Pipeline struct {
	loader     *Loader
	saver      *Saver
	assessor   *quality.Assessor
	dispatcher *filters.Dispatcher
	log        logger.Logger
}

func New(workers int, verbose bool, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		loader:     NewLoader(log),
		saver:      NewSaver(log),
		assessor:   quality.NewAssessor(log, verbose),
		dispatcher: filters.NewDispatcher(workers, log),
		log:        log,
	}
}

// Assess loads the image at path and reports its quality metrics and the
// recommended corrective filter without modifying anything.
func (p *Pipeline) Assess(path string) (*quality.Assessment, error) {
	data, err := p.loader.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	return p.assessor.Assess(data.Mat)
}

// Enhance loads the image at inputPath, picks a filter, applies it, and
// writes the result to outputPath.
//
// An empty or "auto" filterName triggers assessment-driven selection;
// if assessment fails in that mode the stage falls back to a Gaussian
// blur rather than aborting. An explicit unknown name is an error and is
// never replaced by the fallback.
func (p *Pipeline) Enhance(ctx context.Context, inputPath, outputPath, filterName string, params filters.Params) (*Result, error) {
	start := time.Now()

	data, err := p.loader.LoadFromFile(inputPath)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	result := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Width:      data.Width,
		Height:     data.Height,
		Channels:   data.Channels,
		Workers:    p.dispatcher.WorkerCount(),
	}

	choice, assessment, err := p.selectFilter(data, filterName)
	if err != nil {
		return nil, err
	}
	result.Applied = choice
	result.Assessment = assessment

	enhanced, err := p.dispatcher.Apply(ctx, data.Mat, choice, params)
	if err != nil {
		return nil, err
	}
	defer enhanced.Close()

	if err := p.saver.SaveToFile(outputPath, enhanced); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)

	p.log.Info("Pipeline", "enhancement complete", map[string]interface{}{
		"input":      inputPath,
		"output":     outputPath,
		"filter":     choice.String(),
		"workers":    result.Workers,
		"elapsed_ms": result.Elapsed.Milliseconds(),
	})

	return result, nil
}

func (p *Pipeline) selectFilter(data *ImageData, filterName string) (filters.Filter, *quality.Assessment, error) {
	if filterName != "" && filterName != "auto" {
		choice, err := filters.Parse(filterName)
		if err != nil {
			return 0, nil, err
		}
		return choice, nil, nil
	}

	assessment, err := p.assessor.Assess(data.Mat)
	if err != nil {
		p.log.Warning("Pipeline", "assessment failed, falling back to gaussian blur", map[string]interface{}{
			"error": err.Error(),
		})
		return filters.GaussianBlur, nil, nil
	}

	p.log.Info("Pipeline", "filter selected", map[string]interface{}{
		"filter":    assessment.Recommended.String(),
		"rationale": assessment.Rationale,
	})

	return assessment.Recommended, assessment, nil
}
