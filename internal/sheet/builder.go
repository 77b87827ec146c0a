package sheet

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/ask-relay/internal/metrics"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

// Builder produces the spreadsheet preview embedded in the system
// instruction. It never fails: errors become an inline marker so the
// question can still be answered.
type Builder struct {
	source Source
	logger *utils.Logger
}

func NewBuilder(source Source, logger *utils.Logger) *Builder {
	return &Builder{source: source, logger: logger}
}

// Build returns "" when no source is configured.
func (b *Builder) Build(ctx context.Context) string {
	if b.source == nil {
		return ""
	}

	preview, err := b.build(ctx)
	if err != nil {
		b.logger.Warn("Sheet preview unavailable", "source", b.source.Name(), "error", err)
		metrics.SheetFetches.WithLabelValues(b.source.Name(), "error").Inc()
		return ErrorMarker(err)
	}

	metrics.SheetFetches.WithLabelValues(b.source.Name(), "ok").Inc()
	return preview
}

func (b *Builder) build(ctx context.Context) (string, error) {
	data, err := b.source.Fetch(ctx)
	if err != nil {
		return "", err
	}

	text, err := Decode(data)
	if err != nil {
		return "", err
	}

	return Preview(text)
}

// ErrorMarker is the placeholder embedded in place of a preview.
func ErrorMarker(err error) string {
	return fmt.Sprintf("/* sheet fetch error: %v */", err)
}
