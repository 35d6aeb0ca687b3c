// Package logging builds the structured logger used by tltp. Attributes
// that could carry key material are masked before they reach a handler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bashhack/tltp/internal/errs"
)

// DefaultMaskKeys are attribute keys whose values are never written.
var DefaultMaskKeys = []string{"secret", "password", "master", "passphrase"}

const masked = "***"

// ParseLevel converts a level name such as "debug" or "WARN" to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errs.Config("log-level", fmt.Sprintf("unknown level %q", s))
	}
	return level, nil
}

// New returns a text logger writing to w at level, masking DefaultMaskKeys.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Operators read these on a terminal; drop the timestamp noise.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(NewMaskHandler(handler, DefaultMaskKeys...))
}

// MaskHandler replaces the values of configured attribute keys with "***".
type MaskHandler struct {
	handler  slog.Handler
	maskKeys map[string]struct{}
}

// Ensure MaskHandler implements slog.Handler interface
var _ slog.Handler = (*MaskHandler)(nil)

// NewMaskHandler wraps handler. Keys are matched case-insensitively.
func NewMaskHandler(handler slog.Handler, keys ...string) *MaskHandler {
	return &MaskHandler{handler: handler, maskKeys: buildMaskKeys(keys)}
}

func (h *MaskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *MaskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.maskKeys) == 0 {
		return h.handler.Handle(ctx, record)
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(maskAttr(attr, h.maskKeys))
		return true
	})

	return h.handler.Handle(ctx, out)
}

func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	safe := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		safe = append(safe, maskAttr(attr, h.maskKeys))
	}
	return &MaskHandler{
		handler:  h.handler.WithAttrs(safe),
		maskKeys: h.maskKeys,
	}
}

func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return &MaskHandler{
		handler:  h.handler.WithGroup(name),
		maskKeys: h.maskKeys,
	}
}

func buildMaskKeys(fields []string) map[string]struct{} {
	maskKeys := make(map[string]struct{})
	for _, field := range fields {
		field = strings.TrimSpace(strings.ToLower(field))
		if field == "" {
			continue
		}
		maskKeys[field] = struct{}{}
	}
	return maskKeys
}

func maskAttr(attr slog.Attr, maskKeys map[string]struct{}) slog.Attr {
	if _, found := maskKeys[strings.ToLower(attr.Key)]; found {
		return slog.String(attr.Key, masked)
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			out = append(out, maskAttr(ga, maskKeys))
		}
		attr.Value = slog.GroupValue(out...)
	}
	return attr
}
