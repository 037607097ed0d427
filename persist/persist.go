package persist

import (
	"encoding/json"
	"fmt"
	"log"
)

// Storage keys shared across the service.
const (
	KeyCart          = "cart"
	KeyWishlist      = "wishlist"
	KeyLastOrder     = "lastOrder"
	KeyOrderHistory  = "orderHistory"
	KeyAdminLoggedIn = "isAdminLoggedIn"
	KeyAdminUser     = "adminUser"
)

// Substrate is the durable string-keyed, string-valued store the adapter
// wraps. Get's second return reports presence, not success.
type Substrate interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Del(key string) error
}

// WriteError means the substrate rejected a write. The triggering operation
// must be treated as failed; it is the one storage error callers see.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("persist: write %q failed: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Load reads and decodes the value under key. A missing key yields the zero
// value and false. A value that fails to decode is treated as corruption:
// the key is deleted and the zero value returned. Parse failures never
// propagate to callers.
func Load[T any](s Substrate, key string) (T, bool) {
	var zero T
	raw, ok, err := s.Get(key)
	if err != nil {
		log.Printf("persist: read %q failed: %v", key, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Printf("persist: corrupt value under %q, clearing: %v", key, err)
		_ = s.Del(key)
		return zero, false
	}
	return v, true
}

// Save serializes v and writes it synchronously.
func Save(s Substrate, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := s.Set(key, string(data)); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func Remove(s Substrate, key string) {
	if err := s.Del(key); err != nil {
		log.Printf("persist: delete %q failed: %v", key, err)
	}
}
