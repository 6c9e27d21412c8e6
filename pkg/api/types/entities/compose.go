package entities

import (
	"time"

	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
)

func composeTimestamp(t *time.Time) *rfctime.RFC3339 {
	if t == nil {
		return nil
	}
	r := rfctime.RFC3339(*t)
	return &r
}
