package signature

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Compute returns the lowercase hex SHA-512 of orderID, statusCode,
// grossAmount and serverKey concatenated in that order. orderID must be the
// literal value the gateway sent.
func Compute(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func Verify(orderID, statusCode, grossAmount, serverKey, provided string) bool {
	expected := Compute(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
