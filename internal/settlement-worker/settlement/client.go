package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrAlreadySettled indica que o ledger já liquidou a aposta. Para o
// worker isso é sucesso: o efeito que ele queria já aconteceu.
var ErrAlreadySettled = errors.New("bet already settled")

// Settler aplica o desfecho no ledger.
type Settler interface {
	Settle(ctx context.Context, betID, outcome string) error
}

// HTTPSettler chama o endpoint interno de liquidação do ledger-service.
type HTTPSettler struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSettler(baseURL string) *HTTPSettler {
	return &HTTPSettler{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPSettler) Settle(ctx context.Context, betID, outcome string) error {
	body, _ := json.Marshal(map[string]string{"outcome": outcome})
	url := fmt.Sprintf("%s/internal/bets/%s/settle", s.BaseURL, betID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return ErrAlreadySettled
	default:
		return fmt.Errorf("settle %s: unexpected status %d", betID, resp.StatusCode)
	}
}
