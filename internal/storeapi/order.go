package storeapi

import (
	"context"

	"boutique-storefront/internal/domain"
)

// CreateOrder submits the aggregated cart.
func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.OrderAck, error) {
	if payload.Data == nil {
		payload.Data = []domain.OrderLine{}
	}
	var ack domain.OrderAck
	if err := c.post(ctx, "/order", nil, payload, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Reorder retries a rejected attempt; the API drops what is unavailable.
func (c *Client) Reorder(ctx context.Context, key string) (*domain.OrderAck, error) {
	var ack domain.OrderAck
	body := struct {
		Key string `json:"key"`
	}{Key: key}
	if err := c.post(ctx, "/order/reorder", nil, body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
