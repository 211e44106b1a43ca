package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const serverKey = "SB-Mid-server-testkey"

func TestCreateTransaction(t *testing.T) {
	var got snapRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/snap/v1/transactions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, serverKey, user)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Charge{Token: "tok-123", RedirectURL: "https://pay.example/tok-123"})
	}))
	defer srv.Close()

	c := NewMidtransClient(srv.URL, serverKey)
	charge, err := c.CreateTransaction(context.Background(), "o1", 430, []Item{
		{ID: "p1", Name: "Kopi Gayo", Category: "coffee", PriceCents: 90, Qty: 2},
		{ID: "p2", Name: "Teh Melati", Category: "tea", PriceCents: 250, Qty: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "tok-123", charge.Token)
	require.Equal(t, "https://pay.example/tok-123", charge.RedirectURL)

	require.Equal(t, "o1", got.TransactionDetails.OrderID)
	require.Equal(t, int64(430), got.TransactionDetails.GrossAmount)
	require.Len(t, got.ItemDetails, 2)
}

func TestCreateTransaction_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewMidtransClient(srv.URL, serverKey)
	_, err := c.CreateTransaction(context.Background(), "o1", 100, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateTransaction_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewMidtransClient(srv.URL, serverKey)
	_, err := c.CreateTransaction(context.Background(), "o1", 100, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateTransaction_ConnectionRefused(t *testing.T) {
	c := NewMidtransClient("http://127.0.0.1:1", serverKey)
	_, err := c.CreateTransaction(context.Background(), "o1", 100, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func notifBody(t *testing.T, orderID, statusCode, gross, signature string, status TransactionStatus) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"order_id":           orderID,
		"status_code":        statusCode,
		"gross_amount":       gross,
		"transaction_status": string(status),
		"signature_key":      signature,
	})
	require.NoError(t, err)
	return b
}

func TestVerifyNotification(t *testing.T) {
	c := NewMidtransClient("http://unused", serverKey)

	sig := Signature("o1", "200", "430.00", serverKey)
	n, err := c.VerifyNotification(notifBody(t, "o1", "200", "430.00", sig, StatusSettlement))
	require.NoError(t, err)
	require.Equal(t, "o1", n.OrderID)
	require.Equal(t, StatusSettlement, n.TransactionStatus)
}

func TestVerifyNotification_TamperedPayload(t *testing.T) {
	c := NewMidtransClient("http://unused", serverKey)

	sig := Signature("o1", "200", "430.00", serverKey)
	// gross amount diubah setelah signature dihitung
	_, err := c.VerifyNotification(notifBody(t, "o1", "200", "999.00", sig, StatusSettlement))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyNotification_WrongServerKey(t *testing.T) {
	c := NewMidtransClient("http://unused", serverKey)

	sig := Signature("o1", "200", "430.00", "some-other-key")
	_, err := c.VerifyNotification(notifBody(t, "o1", "200", "430.00", sig, StatusSettlement))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyNotification_BadPayload(t *testing.T) {
	c := NewMidtransClient("http://unused", serverKey)

	_, err := c.VerifyNotification([]byte(`not json`))
	require.Error(t, err)

	_, err = c.VerifyNotification([]byte(`{}`))
	require.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/o1/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"order_id":           "o1",
			"transaction_status": "settlement",
		})
	}))
	defer srv.Close()

	c := NewMidtransClient(srv.URL, serverKey)
	n, err := c.CheckStatus(context.Background(), "o1")
	require.NoError(t, err)
	require.Equal(t, StatusSettlement, n.TransactionStatus)
}
