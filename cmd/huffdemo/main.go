// Command huffdemo drives the huffman package: it runs the sample
// encoding, measures encoding time over input sizes, and encodes or decodes
// text through a JSON envelope that carries the code table with the bits.
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("huffdemo failed")
	}
}

type appState struct {
	logger zerolog.Logger
}

func newApp(stdin io.Reader, stdout io.Writer, stderr io.Writer) *cli.App {
	state := &appState{logger: zerolog.Nop()}
	return &cli.App{
		Name:      "huffdemo",
		Usage:     "build Huffman codes and encode or decode with them",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "minimum level to log (trace, debug, info, warn, error)",
				EnvVars: []string{"HUFFDEMO_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			state.logger = zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter}).
				Level(level).
				With().
				Timestamp().
				Logger()
			return nil
		},
		Commands: []*cli.Command{
			state.demoCommand(),
			state.measureCommand(),
			state.encodeCommand(),
			state.decodeCommand(),
		},
	}
}
