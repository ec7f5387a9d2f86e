package id

import (
	"io"

	"github.com/google/uuid"
)

// New generates a random (v4) UUID.
func New() string {
	return uuid.NewString()
}

// TimeOrdered generates a v7 UUID. Ids generated later compare greater.
func TimeOrdered() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FromReader generates a v4 UUID from the bytes of r.
func FromReader(r io.Reader) (string, error) {
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
