package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"enrollment-module/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, secret string) Client {
	t.Helper()
	c, err := NewRazorpay("rzp_test_key", secret, logger.NewDefault())
	require.NoError(t, err)
	return c
}

func TestSign_MatchesManualHMAC(t *testing.T) {
	secret := "abc123"
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("order_9A33XWu170gUtm" + "|" + "pay_29QQoUBi66xm2f"))
	want := hex.EncodeToString(h.Sum(nil))

	got := Sign("order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f", secret)
	assert.Equal(t, want, got)
	assert.Len(t, got, 64)
}

func TestVerifySignature_AcceptsValid(t *testing.T) {
	c := newTestClient(t, "secret_one")

	sig := Sign("order_1", "pay_1", "secret_one")
	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))
}

func TestVerifySignature_RejectsTampered(t *testing.T) {
	c := newTestClient(t, "secret_one")

	sig := Sign("order_1", "pay_1", "secret_one")

	// Flipped last hex digit
	flipped := sig[:len(sig)-1]
	if strings.HasSuffix(sig, "0") {
		flipped += "1"
	} else {
		flipped += "0"
	}
	assert.False(t, c.VerifySignature("order_1", "pay_1", flipped))

	// Signature for a different payment id
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))

	// Signature minted with the wrong secret
	wrong := Sign("order_1", "pay_1", "secret_two")
	assert.False(t, c.VerifySignature("order_1", "pay_1", wrong))
}

func TestVerifySignature_RejectsEmpty(t *testing.T) {
	c := newTestClient(t, "secret_one")
	assert.False(t, c.VerifySignature("order_1", "pay_1", ""))
}

func TestNewRazorpay_RequiresCredentials(t *testing.T) {
	_, err := NewRazorpay("", "secret", logger.NewDefault())
	assert.Error(t, err)

	_, err = NewRazorpay("key", "", logger.NewDefault())
	assert.Error(t, err)
}
