package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	huffman "github.com/chronos-tachyon/prefixcode"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope carries an encoded BitString together with the CodeTable needed
// to decode it.  Symbols are raw bytes, so any input survives the JSON trip.
type envelope struct {
	Fingerprint string                   `json:"fingerprint"`
	Codes       *huffman.CodeTable[byte] `json:"codes"`
	Bits        huffman.BitString        `json:"bits"`
}

func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func encodeBytes(data []byte, opts ...huffman.BuildOption) (*envelope, error) {
	bits, codes, err := huffman.EncodeAll(data, opts...)
	if err != nil {
		return nil, err
	}
	return &envelope{
		Fingerprint: formatFingerprint(codes.Fingerprint()),
		Codes:       codes,
		Bits:        bits,
	}, nil
}

func decodeEnvelope(env *envelope) ([]byte, error) {
	if env.Codes == nil {
		return nil, fmt.Errorf("envelope has no code table")
	}
	if env.Fingerprint != "" {
		expect, err := strconv.ParseUint(env.Fingerprint, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fingerprint %q: %w", env.Fingerprint, err)
		}
		if actual := env.Codes.Fingerprint(); actual != expect {
			return nil, fmt.Errorf("code table fingerprint mismatch: envelope says %016x, table hashes to %016x", expect, actual)
		}
	}
	return huffman.Decode(env.Bits, env.Codes)
}

// readInput returns the arguments joined by spaces, or all of stdin if
// there are no arguments.  Stdin is taken verbatim, trailing newline
// included.
func readInput(c *cli.Context) ([]byte, error) {
	if c.Args().Present() {
		return []byte(strings.Join(c.Args().Slice(), " ")), nil
	}
	return io.ReadAll(c.App.Reader)
}

func (state *appState) encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "encode the bytes of the arguments or stdin into a JSON envelope",
		ArgsUsage: "[text...]",
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return err
			}
			env, err := encodeBytes(data, huffman.WithLogger(state.logger))
			if err != nil {
				return err
			}
			state.logger.Debug().
				Int("symbols", env.Codes.Len()).
				Int("bits", env.Bits.Len()).
				Str("fingerprint", env.Fingerprint).
				Msg("encoded input")
			raw, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, string(raw))
			return err
		},
	}
}

func (state *appState) decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode a JSON envelope (argument or stdin) back into the original bytes",
		ArgsUsage: "[envelope]",
		Action: func(c *cli.Context) error {
			raw, err := readInput(c)
			if err != nil {
				return err
			}
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return fmt.Errorf("parse envelope: %w", err)
			}
			data, err := decodeEnvelope(&env)
			if err != nil {
				return err
			}
			state.logger.Debug().Int("bits", env.Bits.Len()).Msg("decoded envelope")
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}
