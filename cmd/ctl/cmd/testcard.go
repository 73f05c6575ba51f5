package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/jpfielding/xfbimage.go/pkg/testcard"
	"github.com/spf13/cobra"
)

// NewTestcardCmd writes a colour-bar JPEG
func NewTestcardCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testcard",
		Short: "render a colour-bar test card as JPEG",
		Long:  "Renders 75% colour bars over a grey ramp and writes them JPEG compressed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			quality, _ := cmd.Flags().GetInt("quality")
			out, _ := cmd.Flags().GetString("out")

			img, err := testcard.Render(width, height)
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "Rendered test card", slog.Int("width", width), slog.Int("height", height))
			return writeOutput(cmd, out, func(w io.Writer) error {
				return testcard.EncodeJPEG(w, img, quality)
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.IntP("width", "W", 640, "card width in pixels")
	pf.IntP("height", "H", 480, "card height in pixels")
	pf.IntP("quality", "q", 90, "JPEG quality (1-100)")
	pf.StringP("out", "o", "-", "output path (- for stdout)")
	return cmd
}
