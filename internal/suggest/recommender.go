package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Suggestion is what the recommendation collaborator returns: a product
// code and how confident it is, 0 to 1.
type Suggestion struct {
	ProductCode string  `json:"suggested_product_code"`
	Confidence  float64 `json:"confidence"`
}

type Recommender interface {
	SuggestNext(ctx context.Context, currentOrder, orderHistory []string) (Suggestion, error)
}

// Client talks to the recommendation service over HTTP.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		BaseURL: baseURL,
	}
}

type suggestRequest struct {
	CurrentOrder []string `json:"current_order"`
	OrderHistory []string `json:"order_history"`
}

func (c *Client) SuggestNext(ctx context.Context, currentOrder, orderHistory []string) (Suggestion, error) {
	body, _ := json.Marshal(suggestRequest{CurrentOrder: currentOrder, OrderHistory: orderHistory})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/suggestions", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Suggestion{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("recommender: %s", res.Status)
	}
	var s Suggestion
	if err := json.NewDecoder(res.Body).Decode(&s); err != nil {
		return Suggestion{}, err
	}
	return s, nil
}
