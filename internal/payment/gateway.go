// Package payment wraps the Midtrans Snap gateway used to collect
// subscription fees from students.
package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Status is the normalized lifecycle state derived from a gateway
// notification.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSettled Status = "SETTLED"
	StatusFailed  Status = "FAILED"
)

var ErrInvalidSignature = errors.New("payment: invalid notification signature")

// Gateway creates Snap checkout sessions and validates incoming
// notifications from Midtrans.
type Gateway struct {
	serverKey string
	client    snap.Client
}

// NewGateway builds a gateway against the sandbox or production
// environment depending on the production flag.
func NewGateway(serverKey string, production bool) *Gateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &Gateway{serverKey: serverKey}
	g.client.New(serverKey, env)
	return g
}

// CheckoutInput carries everything needed to open a Snap session.
type CheckoutInput struct {
	OrderID      string
	AmountCents  uint32
	StudentName  string
	StudentEmail string
	ItemName     string
	Months       uint32
}

// CreateTransaction opens a Snap checkout session and returns the Snap
// token plus the hosted redirect URL. Amounts are converted from cents
// to whole currency units, which is what Midtrans expects for IDR-style
// gross amounts.
func (g *Gateway) CreateTransaction(in CheckoutInput) (token string, redirectURL string, err error) {
	gross := int64(in.AmountCents) / 100
	if gross < 1 {
		gross = 1
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.StudentName,
			Email: in.StudentEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    in.OrderID,
				Name:  in.ItemName,
				Price: gross / int64(maxU32(in.Months, 1)),
				Qty:   int32(maxU32(in.Months, 1)),
			},
		},
	}

	resp, snapErr := g.client.CreateTransaction(req)
	if snapErr != nil {
		return "", "", snapErr
	}
	return resp.Token, resp.RedirectURL, nil
}

func maxU32(v, floor uint32) uint32 {
	if v < floor {
		return floor
	}
	return v
}

// Notification is the subset of the Midtrans HTTP notification payload
// the server cares about.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// VerifySignature checks the SHA-512 signature Midtrans attaches to
// every notification: sha512(order_id + status_code + gross_amount +
// server_key) hex-encoded.
func (g *Gateway) VerifySignature(n Notification) error {
	want := signaturePayload(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

func signaturePayload(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// ResolveStatus maps the transaction_status / fraud_status pair into
// the normalized lifecycle state. Capture is only a settlement when the
// fraud check accepted it.
func ResolveStatus(transactionStatus, fraudStatus string) Status {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return StatusPending
		}
		return StatusSettled
	case "settlement":
		return StatusSettled
	case "deny", "cancel", "expire", "failure":
		return StatusFailed
	default: // "pending" and anything unknown stays pending
		return StatusPending
	}
}
