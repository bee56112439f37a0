package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	g := NewGateway("SB-Mid-server-testkey", false)

	n := Notification{
		OrderID:     "SUB-abc-123",
		StatusCode:  "200",
		GrossAmount: "150000.00",
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + "SB-Mid-server-testkey"))
	n.SignatureKey = hex.EncodeToString(sum[:])

	if err := g.VerifySignature(n); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	n.SignatureKey = "deadbeef"
	if err := g.VerifySignature(n); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureWrongServerKey(t *testing.T) {
	n := Notification{OrderID: "SUB-x", StatusCode: "200", GrossAmount: "1000.00"}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + "other-key"))
	n.SignatureKey = hex.EncodeToString(sum[:])

	g := NewGateway("SB-Mid-server-testkey", false)
	if err := g.VerifySignature(n); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestResolveStatus(t *testing.T) {
	cases := []struct {
		txStatus    string
		fraudStatus string
		want        Status
	}{
		{"settlement", "", StatusSettled},
		{"capture", "accept", StatusSettled},
		{"capture", "challenge", StatusPending},
		{"deny", "", StatusFailed},
		{"cancel", "", StatusFailed},
		{"expire", "", StatusFailed},
		{"failure", "", StatusFailed},
		{"pending", "", StatusPending},
		{"", "", StatusPending},
	}
	for _, tc := range cases {
		if got := ResolveStatus(tc.txStatus, tc.fraudStatus); got != tc.want {
			t.Errorf("ResolveStatus(%q, %q) = %v, want %v", tc.txStatus, tc.fraudStatus, got, tc.want)
		}
	}
}
