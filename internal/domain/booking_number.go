package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	bookingNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bookingNumberLength   = 6
)

// NewBookingNumber generates a CC-XXXXXX reference from a random UUID.
// Numbers are for humans only and are not guaranteed to be unique.
func NewBookingNumber() string {
	id := uuid.New()

	var sb strings.Builder
	sb.Grow(len(BookingNumberPrefix) + bookingNumberLength)
	sb.WriteString(BookingNumberPrefix)
	for i := 0; i < bookingNumberLength; i++ {
		sb.WriteByte(bookingNumberAlphabet[int(id[i])%len(bookingNumberAlphabet)])
	}
	return sb.String()
}
