// Package server serves live composites of an image onto a framebuffer surface.
//
// Routes:
//
//	GET /frame.png?x=&y=   composite at canvas position (x, y), rendered as PNG
//	GET /frame.xfb?x=&y=   same composite as an fbdump (zstd=1 compresses it)
//	GET /ws                websocket; each JSON {"x":..,"y":..} message is
//	                       answered with a binary fbdump frame
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/jpfielding/xfbimage.go/pkg/fbdump"
	"github.com/jpfielding/xfbimage.go/pkg/xfb"
)

const (
	webSocketReadBufferSize  = 1024
	webSocketWriteBufferSize = 64 * 1024
)

// Position is a canvas position sent by websocket clients
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Handler composites Source onto a fresh surface per request
type Handler struct {
	Source     *xfb.Image
	Mode       xfb.Mode
	CanvasW    float64
	CanvasH    float64
	Background uint32
	Logger     *slog.Logger

	mux *http.ServeMux
}

// New returns a Handler whose canvas matches the mode's framebuffer
func New(src *xfb.Image, mode xfb.Mode, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		Source:     src,
		Mode:       mode,
		CanvasW:    float64(mode.FBWidth),
		CanvasH:    float64(mode.XFBHeight),
		Background: xfb.Black,
		Logger:     logger,
	}
	h.mux = http.NewServeMux()
	h.mux.HandleFunc("GET /frame.png", h.framePNG)
	h.mux.HandleFunc("GET /frame.xfb", h.frameDump)
	h.mux.HandleFunc("GET /ws", h.serveWS)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// render composites a private copy of Source so concurrent requests never
// share an image or a surface
func (h *Handler) render(p Position) (*xfb.Surface, error) {
	s, err := xfb.NewSurface(h.Mode)
	if err != nil {
		return nil, err
	}
	s.Clear(h.Background)
	if err := s.Composite(h.Source.Clone(), h.CanvasW, h.CanvasH, p.X, p.Y); err != nil {
		return nil, err
	}
	return s, nil
}

func (h *Handler) framePNG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.renderQuery(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image().RGBA()); err != nil {
		h.Logger.ErrorContext(r.Context(), "Encoding png", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (h *Handler) frameDump(w http.ResponseWriter, r *http.Request) {
	s, ok := h.renderQuery(w, r)
	if !ok {
		return
	}
	opts := &fbdump.Options{Zstd: r.URL.Query().Get("zstd") == "1"}
	var buf bytes.Buffer
	if err := fbdump.Write(&buf, s.Mode.FBWidth, s.Mode.XFBHeight, s.Pix, opts); err != nil {
		h.Logger.ErrorContext(r.Context(), "Encoding dump", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(buf.Bytes())
}

func (h *Handler) renderQuery(w http.ResponseWriter, r *http.Request) (*xfb.Surface, bool) {
	p, err := parsePosition(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	s, err := h.render(p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, xfb.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return nil, false
	}
	return s, true
}

func parsePosition(r *http.Request) (Position, error) {
	var p Position
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &p.X}, {"y", &p.Y}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid %s: %q", f.name, v)
		}
		*f.dst = n
	}
	return p, nil
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  webSocketReadBufferSize,
		WriteBufferSize: webSocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isAllowedOrigin(r.Header.Get("Origin"))
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "Upgrading websocket", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.Logger.With(slog.String("remote", r.RemoteAddr))
	log.DebugContext(r.Context(), "Websocket connected")
	for {
		var p Position
		if err := conn.ReadJSON(&p); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.DebugContext(r.Context(), "Reading websocket", slog.Any("error", err))
			}
			return
		}

		s, err := h.render(p)
		if err != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error())
			conn.WriteMessage(websocket.CloseMessage, msg)
			return
		}
		var buf bytes.Buffer
		if err := fbdump.Write(&buf, s.Mode.FBWidth, s.Mode.XFBHeight, s.Pix, nil); err != nil {
			log.ErrorContext(r.Context(), "Encoding dump", slog.Any("error", err))
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			if err != websocket.ErrCloseSent {
				log.DebugContext(r.Context(), "Writing websocket", slog.Any("error", err))
			}
			return
		}
	}
}

// isAllowedOrigin accepts non-browser clients, localhost, and the
// comma-separated hosts in XFB_ALLOWED_ORIGINS
func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	normalized := strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	normalized = strings.TrimSuffix(normalized, "/")
	if strings.HasPrefix(normalized, "localhost") || strings.HasPrefix(normalized, "127.0.0.1") {
		return true
	}
	for _, entry := range strings.Split(os.Getenv("XFB_ALLOWED_ORIGINS"), ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" && (entry == normalized || entry == origin) {
			return true
		}
	}
	return false
}
