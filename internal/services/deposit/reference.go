package deposit

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReferenceGenerator produces a candidate transaction reference for t.
type ReferenceGenerator func(t time.Time) string

// NewReference returns e.g. "DEP20240315A1B2C3".
func NewReference(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:referenceSuffixLength]
	return ReferencePrefix + t.Format("20060102") + strings.ToUpper(suffix)
}
