package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	huffman "github.com/chronos-tachyon/prefixcode"
)

var sampleSymbols = []string{"A", "A", "B", "C", "C", "C"}

func (state *appState) demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "encode and decode a sample sequence",
		Action: func(c *cli.Context) error {
			bits, codes, err := huffman.EncodeAll(sampleSymbols, huffman.WithLogger(state.logger))
			if err != nil {
				return err
			}
			decoded, err := huffman.Decode(bits, codes)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintln(w, "Input symbols:", sampleSymbols)
			fmt.Fprint(w, "Huffman codes:")
			codes.Each(func(symbol string, hc huffman.Code) {
				fmt.Fprintf(w, " %s=%s", symbol, hc.Text())
			})
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Encoded text:", bits.Text())
			fmt.Fprintln(w, "Decoded text:", strings.Join(decoded, ""))
			return nil
		},
	}
}

func (state *appState) measureCommand() *cli.Command {
	return &cli.Command{
		Name:  "measure",
		Usage: "time encoding of a repeated symbol over several input sizes",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "sizes",
				Value: cli.NewIntSlice(10, 100, 1000, 10000),
				Usage: "input sizes to measure",
			},
			&cli.StringFlag{
				Name:  "symbol",
				Value: "A",
				Usage: "symbol to repeat",
			},
		},
		Action: func(c *cli.Context) error {
			symbol := c.String("symbol")
			fmt.Fprintln(c.App.Writer, "size\tseconds")
			for _, size := range c.IntSlice("sizes") {
				if size <= 0 {
					return fmt.Errorf("input size must be positive, got %d", size)
				}
				elapsed, err := measureEncode(symbol, size)
				if err != nil {
					return err
				}
				state.logger.Info().Int("size", size).Dur("elapsed", elapsed).Msg("measured encoding")
				fmt.Fprintf(c.App.Writer, "%d\t%.9f\n", size, elapsed.Seconds())
			}
			return nil
		},
	}
}

func measureEncode(symbol string, size int) (time.Duration, error) {
	input := make([]string, size)
	for index := range input {
		input[index] = symbol
	}
	start := time.Now()
	_, _, err := huffman.EncodeAll(input)
	return time.Since(start), err
}
