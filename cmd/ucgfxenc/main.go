// ucgfxenc encodes images and fonts into the compact byte sequences the
// bitmap and font packages replay onto a display.
//
// Images come in as PNG, GIF, JPEG or BMP files. Fonts come in as a
// directory of glyph images named after the decimal character code they
// represent (65.png, 66.png, ...). Output is either a generated Go source
// file or the raw bytes.
package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"

	"periph.io/x/devices/v3/ks0108/encode"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "ucgfxenc"
	app.Usage = "graphics asset encoder for ks0108 displays"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "order",
			Value: "row",
			Usage: "bit packing order, row or column",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output file, stdout when empty",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "go",
			Usage: "output format, go or bin",
		},
		&cli.StringFlag{
			Name:  "package",
			Value: "assets",
			Usage: "package name of generated Go output",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "image",
			Usage:     "Encode a single image",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				order, err := parseOrder(c.String("order"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				path := c.Args().First()
				m, err := loadImage(path)
				if err != nil {
					return cli.Exit(err, 1)
				}

				enc, err := encode.Image(m, order)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := emit(c, identifier(path), enc); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "font",
			Usage:     "Encode a directory of glyph images",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "storage",
					Value: "dense",
					Usage: "glyph table layout, dense or sparse",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				order, err := parseOrder(c.String("order"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				storage, err := parseStorage(c.String("storage"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				dir := c.Args().First()
				glyphs, err := loadGlyphs(dir)
				if err != nil {
					return cli.Exit(err, 1)
				}

				enc, err := encode.Font(glyphs, storage, order)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := emit(c, identifier(dir), enc); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseOrder(s string) (encode.Order, error) {
	switch s {
	case "row":
		return encode.RowMajor, nil
	case "column":
		return encode.ColumnMajor, nil
	}
	return 0, fmt.Errorf("unknown order %q, want row or column", s)
}

func parseStorage(s string) (encode.Storage, error) {
	switch s {
	case "dense":
		return encode.Dense, nil
	case "sparse":
		return encode.Sparse, nil
	}
	return 0, fmt.Errorf("unknown storage %q, want dense or sparse", s)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// loadGlyphs reads every image in dir whose base name is a decimal
// character code, e.g. 65.png for 'A'. Other files are skipped.
func loadGlyphs(dir string) (map[byte]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	glyphs := map[byte]image.Image{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		code, err := strconv.ParseUint(base, 10, 8)
		if err != nil {
			continue
		}
		m, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		glyphs[byte(code)] = m
	}
	if len(glyphs) == 0 {
		return nil, fmt.Errorf("%s: no glyph images named after character codes", dir)
	}
	return glyphs, nil
}

// identifier derives an exported Go variable name from a file path.
func identifier(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	up := true
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z':
			if up {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			up = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
			up = false
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
			up = true
		default:
			up = true
		}
	}
	if b.Len() == 0 {
		return "Asset"
	}
	return b.String()
}

func emit(c *cli.Context, name string, data []byte) error {
	var out []byte
	switch c.String("format") {
	case "bin":
		out = data
	case "go":
		out = []byte(goSource(c.String("package"), name, data))
	default:
		return fmt.Errorf("unknown format %q, want go or bin", c.String("format"))
	}

	if path := c.String("out"); path != "" {
		return os.WriteFile(path, out, 0o644)
	}
	_, err := os.Stdout.Write(out)
	return err
}

func goSource(pkg, name string, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by ucgfxenc. DO NOT EDIT.\n\npackage %s\n\nvar %s = []byte{\n", pkg, name)
	for i, v := range data {
		if i%12 == 0 {
			b.WriteString("\t")
		}
		fmt.Fprintf(&b, "0x%02X,", v)
		if i%12 == 11 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if len(data)%12 != 0 {
		// Trailing space from the last element.
		s := b.String()
		return s[:len(s)-1] + "\n}\n"
	}
	b.WriteString("}\n")
	return b.String()
}
