package payment

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingCode returns "BK" + unix millis + two random digits.
func NewBookingCode(now time.Time) string {
	return fmt.Sprintf("BK%d%02d", now.UnixMilli(), rand.IntN(100))
}

// NewOrderID builds "<prefix>-<bookingCode>-<unixMillis>-<rand>". Every payment attempt
// gets a fresh order id because the gateway rejects reused ones.
func NewOrderID(prefix, bookingCode string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s-%d-%s", prefix, bookingCode, now.UnixMilli(), suffix)
}

// ParseBookingCode extracts the booking code from an order id built by NewOrderID.
// ok is false when orderID does not have that exact shape.
func ParseBookingCode(prefix, orderID string) (string, bool) {
	parts := strings.Split(orderID, "-")
	if len(parts) != 4 || parts[0] != prefix || parts[1] == "" || parts[3] == "" {
		return "", false
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", false
	}
	return parts[1], true
}
