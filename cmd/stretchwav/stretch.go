package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func newStretchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stretch [flags] <input>...",
		Short: "Change duration and pitch of audio files offline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStretch(cmd.Context(), args)
		},
	}
	addStretchFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output file, or directory for several inputs")
	cmd.Flags().Int("jobs", 1, "files processed concurrently")
	cmd.Flags().Int("bit-depth", 0, "output bit depth, 16 or 24 (default: input depth, capped at 24)")
	return cmd
}

func (a *app) runStretch(ctx context.Context, inputs []string) error {
	out := a.v.GetString("output")
	if out == "" {
		return errors.New("stretch: --output is required")
	}
	opts, err := a.stretchOptions()
	if err != nil {
		return fmt.Errorf("stretch: %w", err)
	}
	ratio, pitch := a.v.GetFloat64("ratio"), a.pitchScale()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.v.GetInt("jobs")))
	for _, in := range inputs {
		dst := outputPath(out, in, len(inputs) > 1)
		g.Go(func() error {
			return a.stretchFile(ctx, in, dst, opts, ratio, pitch)
		})
	}
	return g.Wait()
}

func (a *app) stretchFile(ctx context.Context, src, dst string, opts stretch.Options, ratio, pitch float64) error {
	log := a.log.With("input", src)
	c, err := readAudio(src)
	if err != nil {
		return err
	}
	log.Debug("decoded", "rate", c.sampleRate, "channels", len(c.channels), "frames", c.frames(), "bits", c.bitDepth)

	begin := time.Now()
	data, err := stretch.StretchBuffer(ctx, c.channels, c.sampleRate, ratio, pitch, opts, stretch.WithLogger(log))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if err := writeWAV(dst, c.sampleRate, a.outputDepth(c.bitDepth), data); err != nil {
		return err
	}
	log.Info("stretched", "output", dst, "frames", len(data[0]), "elapsed", time.Since(begin))
	return nil
}

func (a *app) outputDepth(in int) int {
	if d := a.v.GetInt("bit-depth"); d != 0 {
		return d
	}
	return min(in, 24)
}

// outputPath names the file written for input. A single input may name
// the output file directly; otherwise out is a directory.
func outputPath(out, input string, many bool) string {
	if !many && strings.EqualFold(filepath.Ext(out), ".wav") {
		return out
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(out, base+".wav")
}
