package session

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Store owns every PaymentSession for the lifetime of the process. All
// access goes through the store by id; callers receive copies. There is
// no delete and no expiry sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*PaymentSession
	now      func() time.Time
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*PaymentSession),
		now:      time.Now,
	}
}

// Create inserts a fresh session in the requires_action state with a newly
// generated id and one-time code. Ids embed the creation time plus a random
// suffix and are regenerated on the (unlikely) collision, so uniqueness
// holds for the whole process.
func (s *Store) Create(method Method, amount decimal.Decimal, currency, returnURL string) *PaymentSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID(method)
	for _, exists := s.sessions[id]; exists; _, exists = s.sessions[id] {
		id = s.newID(method)
	}
	sess := &PaymentSession{
		ID:        id,
		Method:    method,
		Amount:    amount,
		Currency:  currency,
		ReturnURL: returnURL,
		OTP:       newOTP(),
		Status:    StatusRequiresAction,
		CreatedAt: s.now().UTC(),
	}
	s.sessions[id] = sess
	return snapshot(sess)
}

// Get looks up a session by id without side effects.
func (s *Store) Get(id string) (*PaymentSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return snapshot(sess), true
}

// Approve marks the session succeeded and stamps the approval time. A
// second approval of the same id is not an error: the status stays
// succeeded and ApprovedAt is stamped again. This mirrors the documented
// behaviour of the simulator and is covered by tests.
func (s *Store) Approve(id string) (*PaymentSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now().UTC()
	sess.Status = StatusSucceeded
	sess.ApprovedAt = &now
	return snapshot(sess), true
}

// Len reports the number of sessions held by the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) newID(method Method) string {
	var b strings.Builder
	b.WriteString(string(method))
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(s.now().UnixMilli(), 10))
	b.WriteByte('_')
	b.WriteString(randBase36(6))
	return b.String()
}

// newOTP draws a 6-digit code in [100000, 999999].
func newOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randBase36(n int) string {
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			panic(err)
		}
		out[i] = base36[v.Int64()]
	}
	return string(out)
}

func snapshot(sess *PaymentSession) *PaymentSession {
	cp := *sess
	if sess.ApprovedAt != nil {
		t := *sess.ApprovedAt
		cp.ApprovedAt = &t
	}
	return &cp
}
