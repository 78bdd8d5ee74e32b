package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTrackingNumber returns a customer-facing order reference such as
// "SW-3F9A1C0B7D2E4F60".
func NewTrackingNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SW-" + strings.ToUpper(id[:16])
}
