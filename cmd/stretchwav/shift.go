package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func newShiftCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift [flags] <input>",
		Short: "Pitch-shift a file with the low-latency shifter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShift(cmd.Context(), args[0])
		},
	}
	addPitchFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output file")
	cmd.Flags().Int("bit-depth", 0, "output bit depth, 16 or 24 (default: input depth, capped at 24)")
	return cmd
}

func (a *app) runShift(ctx context.Context, src string) error {
	out := a.v.GetString("output")
	if out == "" {
		return errors.New("shift: --output is required")
	}
	opts, err := a.liveOptions()
	if err != nil {
		return err
	}
	c, err := readAudio(src)
	if err != nil {
		return err
	}
	log := a.log.With("input", src)
	data, err := stretch.ShiftBuffer(ctx, c.channels, c.sampleRate, a.pitchScale(), opts, stretch.WithLogger(log))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if err := writeWAV(outputPath(out, src, false), c.sampleRate, a.outputDepth(c.bitDepth), data); err != nil {
		return err
	}
	log.Info("shifted", "output", out, "frames", c.frames())
	return nil
}
