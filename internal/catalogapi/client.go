// Package catalogapi is the inventory service's client for the catalog
// service's single-product endpoint.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/config"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/pkg/correlationid"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client with the configured base URL and a
// bounded per-call timeout.
func NewClient(cfg config.Catalog) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type productDocument struct {
	Data *struct {
		Type       string `json:"type"`
		ID         string `json:"id"`
		Attributes struct {
			Name  string  `json:"nombre"`
			Price float64 `json:"precio"`
		} `json:"attributes"`
	} `json:"data"`
}

// GetProduct fetches one product and classifies every outcome: the product,
// apperr.ErrProductNotFound, or a catalog unavailable/malformed/timeout error.
func (c *Client) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	reqURL := fmt.Sprintf("%s/products/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Product{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	if correlationID, ok := correlationid.FromContext(ctx); ok {
		req.Header.Set(correlationid.Header, correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return model.Product{}, apperr.ErrCatalogTimeout.WrapParent(err)
		}
		return model.Product{}, apperr.ErrCatalogUnavailable.WrapParent(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.Product{}, apperr.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return model.Product{}, apperr.ErrCatalogUnavailable.
			WrapParent(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var doc productDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return model.Product{}, apperr.ErrCatalogMalformed.WrapParent(err)
	}
	if doc.Data == nil {
		return model.Product{}, apperr.ErrCatalogMalformed.
			WrapParent(errors.New("document has no data"))
	}

	id, err := strconv.ParseInt(doc.Data.ID, 10, 64)
	if err != nil {
		return model.Product{}, apperr.ErrCatalogMalformed.
			WrapParent(fmt.Errorf("parse product id %q: %w", doc.Data.ID, err))
	}

	return model.Product{
		ID:    id,
		Name:  doc.Data.Attributes.Name,
		Price: doc.Data.Attributes.Price,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
