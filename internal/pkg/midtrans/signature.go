package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Signature computes the notification signature key:
// hex(SHA512(orderID + statusCode + grossAmount + serverKey)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// Verifier checks notification signatures. When Enabled is false every payload is
// accepted; the switch follows the gateway production flag.
type Verifier struct {
	ServerKey string
	Enabled   bool
}

func (v Verifier) Verify(n TransactionStatus) bool {
	if !v.Enabled {
		return true
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, v.ServerKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) == 1
}
