package storeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"boutique-storefront/internal/domain"
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// AsConflict extracts the partial-availability rejection of the order API.
// Only a 400 whose body carries a string "key" qualifies; every other failure
// is a plain error for the caller.
func AsConflict(err error) (*domain.OrderConflict, bool) {
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		return nil, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(se.Body, &probe); err != nil {
		return nil, false
	}
	rawKey, ok := probe["key"]
	if !ok {
		return nil, false
	}
	var key string
	if err := json.Unmarshal(rawKey, &key); err != nil {
		return nil, false
	}
	conflict := &domain.OrderConflict{Key: key}
	_ = json.Unmarshal(probe["message"], &conflict.Message)
	_ = json.Unmarshal(probe["products"], &conflict.Products)
	return conflict, true
}
