package apikey

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/noah-isme/payment-simulator/internal/session"
)

// Default pre-shared keys seeded at startup. They are test keys for a
// simulator and are rotated at runtime through the admin endpoints.
const (
	DefaultCreditCardKey = "cc_sim_pk_test_5f3a2b1c4d5e6f7g8h9i0j1k"
	DefaultSTCPayKey     = "stc_sim_pk_test_9k1j0i9h8g7f6e5d4c3b2a1f"
	DefaultTabbyKey      = "tby_sim_pk_test_1a2b3c4d5e6f7g8h9i0j1k2l"
)

// Registry maps the three payment-method identities to their current
// pre-shared key. Keys are mutable at runtime; every lookup reads the
// live set so a rotation takes effect on the next request.
type Registry struct {
	mu   sync.RWMutex
	keys map[session.Method]string
}

// NewRegistry seeds a registry with the provided keys, falling back to the
// built-in defaults for any blank entry.
func NewRegistry(creditCard, stcPay, tabby string) *Registry {
	if creditCard == "" {
		creditCard = DefaultCreditCardKey
	}
	if stcPay == "" {
		stcPay = DefaultSTCPayKey
	}
	if tabby == "" {
		tabby = DefaultTabbyKey
	}
	return &Registry{keys: map[session.Method]string{
		session.MethodCreditCard: creditCard,
		session.MethodSTCPay:     stcPay,
		session.MethodTabby:      tabby,
	}}
}

// Resolve maps a presented key to its payment-method identity.
func (r *Registry) Resolve(key string) (session.Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for method, current := range r.keys {
		if current == key {
			return method, true
		}
	}
	return "", false
}

// Key returns the current key for a method.
func (r *Registry) Key(method session.Method) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[method]
	return key, ok
}

// Set replaces the key for a method. Unknown methods are rejected.
func (r *Registry) Set(method session.Method, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[method]; !ok {
		return false
	}
	r.keys[method] = key
	return true
}

// Regenerate replaces the key for a method with a freshly generated one
// carrying the method's conventional prefix, and returns the new key.
func (r *Registry) Regenerate(method session.Method) (string, bool) {
	prefix, ok := keyPrefix(method)
	if !ok {
		return "", false
	}
	key := prefix + randSuffix(26)
	if !r.Set(method, key) {
		return "", false
	}
	return key, true
}

// Snapshot returns a copy of the current key set.
func (r *Registry) Snapshot() map[session.Method]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[session.Method]string, len(r.keys))
	for method, key := range r.keys {
		out[method] = key
	}
	return out
}

func keyPrefix(method session.Method) (string, bool) {
	switch method {
	case session.MethodCreditCard:
		return "cc_sim_pk_test_", true
	case session.MethodSTCPay:
		return "stc_sim_pk_test_", true
	case session.MethodTabby:
		return "tby_sim_pk_test_", true
	}
	return "", false
}

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyAlphabet))))
		if err != nil {
			panic(err)
		}
		out[i] = keyAlphabet[v.Int64()]
	}
	return string(out)
}
