package utils

import (
	"crypto/rand"
	"math/big"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

func EmailValid(email string) bool {
	emailAddress, err := mail.ParseAddress(email)
	return err == nil && emailAddress.Address == email
}

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomId returns a random alphanumeric id, 20 characters unless a
// length is given.
func GenerateRandomId(length ...int) (string, error) {
	idLength := 20
	if len(length) > 0 {
		idLength = length[0]
	}

	id := make([]byte, idLength)
	for i := range id {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}

		id[i] = charset[num.Int64()]
	}

	return string(id), nil
}

// NewInviteCode returns an opaque invite token.
func NewInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
