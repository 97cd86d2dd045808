package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
)

const maxBodySize = 64 << 20

// RESTSource reads payments from a GET /payments style endpoint.
type RESTSource struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewRESTSource(url, token string, timeout time.Duration) *RESTSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RESTSource{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *RESTSource) Fetch(ctx context.Context) ([]*analytics.PaymentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build payments request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read payments body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %s: %s", ErrUpstream, resp.Status, truncate(body, 200))
	}
	return DecodePayments(body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
