package einvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/pkg/apperror"
)

// HTTPProvider publishes invoices to an external e-invoice gateway over its
// JSON API. Timeouts and retries are the caller's concern; the provider does
// a single request per call.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client for the given gateway.
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type publishRequest struct {
	ExternalRef  string `json:"external_ref"`
	OrderNo      string `json:"order_no"`
	BuyerName    string `json:"buyer_name,omitempty"`
	BuyerTaxCode string `json:"buyer_tax_code,omitempty"`
	SubTotal     int64  `json:"subtotal"`
	Tax          int64  `json:"tax"`
	Discount     int64  `json:"discount"`
	Total        int64  `json:"total"`
}

type publishResponse struct {
	Serial        string `json:"serial"`
	InvoiceNumber string `json:"invoice_number"`
}

// Publish sends the invoice to the gateway and returns the assigned serial
// and number.
func (p *HTTPProvider) Publish(ctx context.Context, order *entity.Order, invoice *entity.Invoice) (*service.ProviderInvoice, error) {
	body, err := json.Marshal(publishRequest{
		ExternalRef:  invoice.ID.String(),
		OrderNo:      order.OrderNo,
		BuyerName:    invoice.BuyerName,
		BuyerTaxCode: invoice.BuyerTaxCode,
		SubTotal:     order.SubTotal,
		Tax:          order.Tax,
		Discount:     order.Discount,
		Total:        order.Total,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperror.ErrInvoiceProviderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, apperror.ErrInvoiceProviderUnavailable
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("invoice gateway rejected request: %s", resp.Status)
	}

	var out publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &service.ProviderInvoice{
		Serial:        out.Serial,
		InvoiceNumber: out.InvoiceNumber,
	}, nil
}
