package domain

// OrderLine is one aggregated product entry submitted to the order API.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Count     int    `json:"count"`
}

// OrderPayload is the body of POST /order.
type OrderPayload struct {
	Data []OrderLine `json:"data"`
}

// OrderAck is the order API acknowledgement.
type OrderAck struct {
	Message string `json:"message"`
}

// OrderConflict is returned by the order API when part of the cart became
// unavailable. Key references the rejected attempt and is required to reorder.
type OrderConflict struct {
	Message  string `json:"message"`
	Products string `json:"products"`
	Key      string `json:"key"`
}
