// Package align runs the file-level registration pipeline: decode a scan,
// detect its sprocket, shift the frame into place and write the result.
package align

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
	"github.com/ironsheep/sprocket-tools-mcp/internal/sprocket"
)

// Job is one frame to align.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Outcome reports what was done to one frame.
type Outcome struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	XShift   int    `json:"x_shift"`
	YShift   int    `json:"y_shift"`
	Detected bool   `json:"detected"`
}

// Aligner aligns frames with a fixed configuration. It is safe for
// concurrent use.
type Aligner struct {
	Config sprocket.Config
	Border imaging.BorderMode

	// Debug enables per-frame log lines.
	Debug bool
}

// New returns an Aligner using cfg and zero-filled borders.
func New(cfg sprocket.Config) *Aligner {
	return &Aligner{Config: cfg, Border: imaging.BorderConstant}
}

// AlignFrame detects the sprocket in f and returns the shifted frame along
// with the detection.
func (a *Aligner) AlignFrame(f *imaging.Frame) (*imaging.Frame, *sprocket.Result, error) {
	res, err := sprocket.Detect(f, a.Config)
	if err != nil {
		return nil, nil, err
	}
	return imaging.ApplyShift(f, res.XShift, res.YShift, a.Border), res, nil
}

// AlignFile aligns the image at in and writes it to out.
func (a *Aligner) AlignFile(ctx context.Context, in, out string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := imaging.LoadFrame(in)
	if err != nil {
		return nil, err
	}

	shifted, res, err := a.AlignFrame(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect sprocket in %s: %w", in, err)
	}

	if err := imaging.SaveFrame(shifted, out); err != nil {
		return nil, err
	}

	if a.Debug {
		log.Printf("aligned %s -> %s: shift (%d,%d), sprocket size %d",
			in, out, res.XShift, res.YShift, res.SprocketSize)
	}

	return &Outcome{
		Input:    in,
		Output:   out,
		XShift:   res.XShift,
		YShift:   res.YShift,
		Detected: res.Detected(),
	}, nil
}

// AlignAll aligns every job with at most workers frames in flight. Outcomes
// are returned in job order. The first failure cancels the remaining jobs
// and is returned.
func (a *Aligner) AlignAll(ctx context.Context, jobs []Job, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job // per-iteration copy (go1.22 loop semantics under go 1.21 directive)
		g.Go(func() error {
			o, err := a.AlignFile(ctx, job.Input, job.Output)
			if err != nil {
				return err
			}
			outcomes[i] = *o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// JobsForDir pairs every input with a file of the same name in outDir.
func JobsForDir(inputs []string, outDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := filepath.Join(outDir, filepath.Base(in))
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("inputs %s and %s map to the same output %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, Job{Input: in, Output: out})
	}
	return jobs, nil
}
