package api

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	// idLength is the number of random characters after the prefix.
	idLength = 24

	// charset for ID generation: alphanumeric only.
	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	invocationIDPrefix = "inv_"
)

var invocationIDPattern = regexp.MustCompile(`^inv_[a-zA-Z0-9]{24}$`)

// NewInvocationID generates a tool invocation ID in the format
// "inv_" followed by 24 random alphanumeric characters. Invocation IDs
// correlate the log lines of a single tool call.
func NewInvocationID() string {
	return invocationIDPrefix + randomAlphanumeric(idLength)
}

// ValidateInvocationID checks whether the given string is a valid
// invocation ID.
func ValidateInvocationID(id string) bool {
	return invocationIDPattern.MatchString(id)
}

// randomAlphanumeric generates a cryptographically secure random string
// of the given length using the alphanumeric charset.
func randomAlphanumeric(length int) string {
	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable.
			panic("api: failed to generate random ID: " + err.Error())
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
