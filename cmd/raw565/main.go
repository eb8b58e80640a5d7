package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	gopng "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/novaeco/raw565"
	"github.com/novaeco/raw565/png"
	"github.com/novaeco/raw565/rgb565"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func fail(err error) error {
	return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func byteOrder(c *cli.Context) binary.ByteOrder {
	if c.Bool("no-swap") {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func newConverter(c *cli.Context) (*raw565.Converter, error) {
	bg, err := raw565.ParseBackground(c.String("background"))
	if err != nil {
		return nil, err
	}

	opts := raw565.DefaultOptions()
	opts.Background = bg
	opts.ByteOrder = byteOrder(c)
	opts.Colors = c.Int("colors")

	return raw565.New(opts, newLogger(c))
}

func convert(c *cli.Context) error {
	input, output := c.String("input"), c.String("output")
	if input == "" || output == "" {
		return fail(&raw565.UsageError{Msg: "--input and --output are required"})
	}

	conv, err := newConverter(c)
	if err != nil {
		return fail(err)
	}

	if err := conv.Convert(input, output); err != nil {
		return fail(err)
	}

	return nil
}

// exitErrHandler reports an action error on the app's error writer and
// exits with its code.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(c.App.ErrWriter, msg)
	}
	if exitErr, ok := err.(cli.ExitCoder); ok {
		cli.OsExiter(exitErr.ExitCode())
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "raw565"
	app.Usage = "Convert PNG images to raw RGB565 binaries"
	app.Version = "1.0.0"
	app.ErrWriter = os.Stderr
	app.ExitErrHandler = exitErrHandler

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "input",
			Usage: "input PNG file",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "output .bin file",
		},
		&cli.StringFlag{
			Name:    "background",
			EnvVars: []string{"RAW565_BACKGROUND"},
			Value:   "000000",
			Usage:   "background color (RRGGBB) used when compositing transparency",
		},
		&cli.BoolFlag{
			Name:  "no-swap",
			Usage: "disable byte swapping (default swaps bytes to match little-endian RGB565)",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce the image to at most this many colors, 0 to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = convert

	app.Commands = []*cli.Command{
		{
			Name:        "batch",
			Usage:       "Convert every PNG image in a directory tree",
			Description: "Each SOURCE/path/name.png is written to DESTINATION/path/name.bin",
			ArgsUsage:   "SOURCE DESTINATION",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					EnvVars: []string{"RAW565_WORKERS"},
					Value:   runtime.NumCPU(),
					Usage:   "number of images converted concurrently",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, err := newConverter(c)
				if err != nil {
					return fail(err)
				}

				if err := conv.Batch(c.Args().Get(0), c.Args().Get(1), c.Int("workers")); err != nil {
					return fail(err)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Print the dimensions of a PNG image and its RGB565 size",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return fail(err)
				}
				defer f.Close()

				cfg, err := png.DecodeConfig(f)
				if err != nil {
					return fail(err)
				}

				fmt.Fprintf(c.App.Writer, "%s: %dx%d, %d bytes as RGB565\n", filepath.Base(f.Name()), cfg.Width, cfg.Height, cfg.Width*cfg.Height*2)

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Render a raw RGB565 binary back to PNG",
			Description: "The byte order follows --no-swap, as for conversion",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "image height in pixels",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				if c.Int("width") <= 0 || c.Int("height") <= 0 {
					return fail(&raw565.UsageError{Msg: "--width and --height are required"})
				}

				in, err := os.Open(c.Args().Get(0))
				if err != nil {
					return fail(err)
				}
				defer in.Close()

				m, err := rgb565.Decode(in, c.Int("width"), c.Int("height"), byteOrder(c))
				if err != nil {
					return fail(err)
				}

				out, err := os.Create(c.Args().Get(1))
				if err != nil {
					return fail(err)
				}

				if err := gopng.Encode(out, m); err != nil {
					out.Close()
					return fail(err)
				}
				if err := out.Close(); err != nil {
					return fail(err)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(app.ErrWriter, "Error: %v\n", err)
		}
		cli.OsExiter(1)
	}
}
