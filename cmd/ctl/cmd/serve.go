package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jpfielding/xfbimage.go/pkg/server"
	"github.com/spf13/cobra"
)

// NewServeCmd serves live composites of an image over HTTP and websocket
func NewServeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <image>",
		Short: "serve live composites over http/websocket",
		Long:  "Serves /frame.png, /frame.xfb and /ws, compositing the image onto a fresh framebuffer per request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			img, err := loadImage(cmd, args[0])
			if err != nil {
				return err
			}
			mode, err := resolveMode(cmd)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(img, mode, slog.Default()),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			slog.InfoContext(ctx, "Serving composites",
				slog.String("addr", addr),
				slog.String("mode", mode.String()),
				slog.Int("width", img.Width()),
				slog.Int("height", img.Height()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("addr", ":8080", "listen address")
	pf.String("mode", "ntsc480i", "framebuffer mode")
	pf.Int("fb-width", 0, "custom framebuffer width in pixels (overrides --mode with --fb-height)")
	pf.Int("fb-height", 0, "custom framebuffer height in rows")
	return cmd
}
