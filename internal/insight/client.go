package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Fallback substitui o texto do analista quando o provedor falha.
// O chamador nunca vê erro: insight é decorativo, não pode derrubar fluxo.
const Fallback = "The AI analyst is currently unavailable. Trust your gut for this one!"

// Client busca o texto de análise de uma partida no provedor de insights.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

type insightResponse struct {
	MatchID string `json:"matchId"`
	Text    string `json:"text"`
}

// Fetch retorna o texto de insight para a partida, ou o Fallback em
// qualquer falha (rede, status, corpo inválido, texto vazio).
func (c *Client) Fetch(ctx context.Context, matchID string) string {
	u := fmt.Sprintf("%s?matchId=%s", c.BaseURL, url.QueryEscape(matchID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Fallback
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fallback
	}
	var body insightResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Text == "" {
		return Fallback
	}
	return body.Text
}
