package session_test

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-simulator/internal/session"
)

func TestCreatePopulatesSession(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodSTCPay, decimal.NewFromInt(150), "SAR", "https://shop.example/return")

	require.True(t, strings.HasPrefix(sess.ID, "stcpay_"))
	require.Equal(t, session.StatusRequiresAction, sess.Status)
	require.Equal(t, "SAR", sess.Currency)
	require.Nil(t, sess.ApprovedAt)
	require.False(t, sess.CreatedAt.IsZero())

	require.Regexp(t, regexp.MustCompile(`^\d{6}$`), sess.OTP)
	otp, err := strconv.Atoi(sess.OTP)
	require.NoError(t, err)
	require.GreaterOrEqual(t, otp, 100000)
	require.LessOrEqual(t, otp, 999999)
}

func TestCreateConcurrentIDsUnique(t *testing.T) {
	const n = 1000
	store := session.NewStore()

	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := store.Create(session.MethodTabby, decimal.NewFromInt(400), "SAR", "")
			ids <- sess.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = struct{}{}
	}
	if store.Len() != n {
		t.Fatalf("expected %d sessions, got %d", n, store.Len())
	}
}

func TestGetUnknownID(t *testing.T) {
	store := session.NewStore()
	if _, ok := store.Get("stcpay_missing"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestApproveUnknownIDCreatesNothing(t *testing.T) {
	store := session.NewStore()
	_, ok := store.Approve("tabby_missing")
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestApproveVisibleToGet(t *testing.T) {
	store := session.NewStore()
	created := store.Create(session.MethodSTCPay, decimal.NewFromInt(150), "SAR", "")

	approved, ok := store.Approve(created.ID)
	require.True(t, ok)
	require.Equal(t, session.StatusSucceeded, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	require.Equal(t, session.StatusSucceeded, got.Status)
	require.NotNil(t, got.ApprovedAt)
}

// Approving twice is not an error: the second call re-stamps ApprovedAt.
// This is deliberate simulator behaviour, not a bug.
func TestApproveTwiceRestamps(t *testing.T) {
	store := session.NewStore()
	created := store.Create(session.MethodTabby, decimal.NewFromInt(200), "SAR", "")

	first, ok := store.Approve(created.ID)
	require.True(t, ok)
	second, ok := store.Approve(created.ID)
	require.True(t, ok)

	require.Equal(t, session.StatusSucceeded, second.Status)
	require.NotNil(t, second.ApprovedAt)
	require.False(t, second.ApprovedAt.Before(*first.ApprovedAt))
}

func TestSnapshotsDoNotAliasStoreState(t *testing.T) {
	store := session.NewStore()
	created := store.Create(session.MethodSTCPay, decimal.NewFromInt(10), "SAR", "")
	created.Status = session.StatusSucceeded

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	require.Equal(t, session.StatusRequiresAction, got.Status)
}

func TestInstallmentAmountRounding(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"400.00", "100"},
		{"100", "25"},
		{"99.99", "25"},
		{"50", "12.5"},
		{"333.33", "83.33"},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		sess := session.PaymentSession{Amount: amount}
		require.Equal(t, tc.want, sess.InstallmentAmount(4).String(), "amount %s", tc.amount)
	}
}
