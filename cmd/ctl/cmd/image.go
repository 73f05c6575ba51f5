package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/xfbimage.go/pkg/fbdump"
	"github.com/jpfielding/xfbimage.go/pkg/util"
	"github.com/jpfielding/xfbimage.go/pkg/xfb"
	"github.com/spf13/cobra"
)

// ImageInfo is the info command's report
type ImageInfo struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Units       int    `json:"units"`
	Fingerprint string `json:"fingerprint"`
}

// NewInfoCmd decodes an image and reports its packed geometry
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "decode an image and print its packed geometry",
		Long:  "Decodes an image (use - for stdin) and prints width, height, packed unit count and a content fingerprint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(cmd, args[0])
			if err != nil {
				return err
			}
			info := ImageInfo{
				Path:        args[0],
				Width:       img.Width(),
				Height:      img.Height(),
				Units:       len(img.Pix()),
				Fingerprint: util.Fingerprint(img.Pix()),
			}
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\nWidth: %d\nHeight: %d\nUnits: %d\nFingerprint: %s\n",
					info.Path, info.Width, info.Height, info.Units, info.Fingerprint)
			default:
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "json", "output format (text|json)")
	return cmd
}

// NewPackCmd writes an image's packed buffer as a framebuffer dump
func NewPackCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <image>",
		Short: "pack an image into a framebuffer dump",
		Long:  "Decodes an image and writes its packed Y1CbY2Cr units, at the image's own size, as an fbdump file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			zstd, _ := cmd.Flags().GetBool("zstd")

			img, err := loadImage(cmd, args[0])
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "Packed image",
				slog.Int("width", img.Width()),
				slog.Int("height", img.Height()),
				slog.String("fingerprint", util.Fingerprint(img.Pix())))

			return writeOutput(cmd, out, func(w io.Writer) error {
				return fbdump.Write(w, img.Width(), img.Height(), img.Pix(), &fbdump.Options{Zstd: zstd})
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "-", "output dump path (- for stdout)")
	pf.Bool("zstd", false, "zstd compress the dump body")
	return cmd
}

// NewCompositeCmd composites an image onto a framebuffer surface
func NewCompositeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "composite <image>",
		Short: "composite an image onto a framebuffer",
		Long: "Composites an image onto a cleared framebuffer (or a --base dump) at canvas position (--x, --y). " +
			"Output ending in .png is rendered as RGB, anything else is written as an fbdump.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			base, _ := cmd.Flags().GetString("base")
			zstd, _ := cmd.Flags().GetBool("zstd")
			canvasW, _ := cmd.Flags().GetFloat64("canvas-width")
			canvasH, _ := cmd.Flags().GetFloat64("canvas-height")
			x, _ := cmd.Flags().GetFloat64("x")
			y, _ := cmd.Flags().GetFloat64("y")

			img, err := loadImage(cmd, args[0])
			if err != nil {
				return err
			}

			var s *xfb.Surface
			if base != "" {
				s, err = loadSurface(base)
			} else {
				var mode xfb.Mode
				if mode, err = resolveMode(cmd); err == nil {
					s, err = xfb.NewSurface(mode)
				}
			}
			if err != nil {
				return err
			}

			if canvasW == 0 {
				canvasW = float64(s.Mode.FBWidth)
			}
			if canvasH == 0 {
				canvasH = float64(s.Mode.XFBHeight)
			}
			if err := s.Composite(img, canvasW, canvasH, x, y); err != nil {
				return err
			}
			px, py := img.Position()
			slog.InfoContext(ctx, "Composited image",
				slog.String("mode", s.Mode.String()),
				slog.Int("x", int(px)),
				slog.Int("y", int(py)),
				slog.String("fingerprint", util.Fingerprint(s.Pix)))

			return writeSurface(cmd, out, s, zstd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "-", "output path (.png for an RGB preview, otherwise fbdump; - for stdout)")
	pf.String("base", "", "fbdump to composite onto instead of a cleared framebuffer")
	pf.String("mode", "ntsc480i", "framebuffer mode ("+strings.Join(xfb.Modes(), "|")+")")
	pf.Int("fb-width", 0, "custom framebuffer width in pixels (overrides --mode with --fb-height)")
	pf.Int("fb-height", 0, "custom framebuffer height in rows")
	pf.Float64("canvas-width", 0, "canvas width the position is expressed in (default framebuffer width)")
	pf.Float64("canvas-height", 0, "canvas height the position is expressed in (default framebuffer height)")
	pf.Float64("x", 0, "canvas x of the image's top-left corner")
	pf.Float64("y", 0, "canvas y of the image's top-left corner")
	pf.Bool("zstd", false, "zstd compress the dump body")
	return cmd
}

// NewPreviewCmd renders a framebuffer dump as PNG
func NewPreviewCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <dump>",
		Short: "render a framebuffer dump as PNG",
		Long:  "Reads an fbdump file and writes its contents converted back to RGB as a PNG.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			s, err := loadSurface(args[0])
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "Previewing dump", slog.String("mode", s.Mode.String()))
			return writeOutput(cmd, out, func(w io.Writer) error {
				return png.Encode(w, s.Image().RGBA())
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "-", "output png path (- for stdout)")
	return cmd
}

// loadImage decodes path, or stdin when path is "-"
func loadImage(cmd *cobra.Command, path string) (*xfb.Image, error) {
	path = strings.TrimPrefix(path, "file://")
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return xfb.Decode(data, nil)
	}
	return xfb.ReadFile(path, nil)
}

// loadSurface reads a dump into a surface of the dump's geometry
func loadSurface(path string) (*xfb.Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()
	d, err := fbdump.Read(f)
	if err != nil {
		return nil, err
	}
	return &xfb.Surface{
		Mode: xfb.Mode{Name: "dump", FBWidth: d.Width, XFBHeight: d.Height},
		Pix:  d.Pix,
	}, nil
}

// resolveMode picks the custom geometry when both fb flags are set, otherwise the named mode
func resolveMode(cmd *cobra.Command) (xfb.Mode, error) {
	w, _ := cmd.Flags().GetInt("fb-width")
	h, _ := cmd.Flags().GetInt("fb-height")
	if w > 0 && h > 0 {
		m := xfb.Mode{Name: "custom", FBWidth: w, XFBHeight: h}
		return m, m.Validate()
	}
	name, _ := cmd.Flags().GetString("mode")
	m, ok := xfb.ModeByName(name)
	if !ok {
		return m, fmt.Errorf("unknown mode %q (%s)", name, strings.Join(xfb.Modes(), ", "))
	}
	return m, nil
}

func writeSurface(cmd *cobra.Command, out string, s *xfb.Surface, zstd bool) error {
	return writeOutput(cmd, out, func(w io.Writer) error {
		if strings.HasSuffix(strings.ToLower(out), ".png") {
			return png.Encode(w, s.Image().RGBA())
		}
		return fbdump.Write(w, s.Mode.FBWidth, s.Mode.XFBHeight, s.Pix, &fbdump.Options{Zstd: zstd})
	})
}

// writeOutput hands fn the command's stdout for "" or "-", otherwise a created file
func writeOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
