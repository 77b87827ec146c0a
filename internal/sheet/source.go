package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BerylCAtieno/ask-relay/internal/config"
	"github.com/BerylCAtieno/ask-relay/internal/storage"
)

const (
	FetchTimeout = 10 * time.Second

	maxSheetBytes = 10 << 20 // 10MB
)

// Source returns the raw bytes of a CSV export.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// NewSource picks the configured sheet source. It returns nil when none is
// configured. SHEET_CSV_URL wins over the object-store settings.
func NewSource(cfg *config.Config) (Source, error) {
	switch {
	case cfg.SheetCSVURL != "":
		return NewHTTPSource(cfg.SheetCSVURL, FetchTimeout), nil
	case cfg.SheetS3.Enabled():
		reader, err := storage.NewS3Reader(cfg.SheetS3)
		if err != nil {
			return nil, err
		}
		return NewObjectSource(reader, cfg.SheetS3.Key, FetchTimeout), nil
	default:
		return nil, nil
	}
}

type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), s.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(body) > maxSheetBytes {
		return nil, fmt.Errorf("sheet exceeds %d bytes", maxSheetBytes)
	}

	return body, nil
}

type ObjectSource struct {
	reader  storage.Reader
	key     string
	timeout time.Duration
}

func NewObjectSource(reader storage.Reader, key string, timeout time.Duration) *ObjectSource {
	return &ObjectSource{reader: reader, key: key, timeout: timeout}
}

func (s *ObjectSource) Name() string { return "s3" }

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.reader.Download(ctx, s.key)
}
