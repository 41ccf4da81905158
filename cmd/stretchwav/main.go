// Command stretchwav time-stretches and pitch-shifts audio files.
//
// Usage:
//
//	stretchwav stretch [flags] <input>... -o <file|dir>
//	stretchwav shift [flags] <input> -o <file>
//	stretchwav flags [flags]
//
// WAV (16/24/32-bit PCM) and FLAC inputs are accepted; output is PCM WAV.
// Every flag can also be set in a YAML config file (--config) or through
// STRETCHWAV_<FLAG> environment variables.
//
// Examples:
//
//	stretchwav stretch --ratio 1.25 -o slow.wav speech.wav
//	stretchwav stretch --semitones -3 --formant --jobs 4 -o out/ *.flac
//	stretchwav shift --pitch 1.5 -o up.wav riff.wav
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
