package ratecard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/wirequote/internal/domain/pricing"
)

const maxResponseBytes = 4 << 20

// HTTPSource fetches worker records from a JSON API.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	maxBody    int64
	logger     *slog.Logger
}

// NewHTTPSource builds a source for url.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBody: maxResponseBytes,
		logger:  logger.With("component", "ratecard.http"),
	}
}

// FetchRateCards returns the active workers. Records that fail to decode are skipped.
func (s *HTTPSource) FetchRateCards(ctx context.Context) ([]pricing.RateCard, error) {
	if s.url == "" {
		return nil, errors.New("rate card api url is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate card request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate card request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("rate card request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var items []json.RawMessage
	// A body cut off at maxBody fails to decode, which sends the registry to its default card.
	if err := json.NewDecoder(io.LimitReader(resp.Body, s.maxBody)).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode rate card response: %w", err)
	}

	records := make([]record, 0, len(items))
	for i, item := range items {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			s.logger.Warn("skipping malformed worker record", "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	cards := activeCards(records)
	s.logger.Debug("worker records fetched", "total", len(items), "active", len(cards))
	return cards, nil
}
