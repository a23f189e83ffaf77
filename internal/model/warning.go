package model

import "fmt"

// WarningKind classifies a non-fatal degradation.
type WarningKind string

const (
	WarnMalformedRow          WarningKind = "malformed-row"
	WarnInvalidShare          WarningKind = "invalid-share"
	WarnUnresolvedCurrency    WarningKind = "unresolvable-currency"
	WarnRateSourceUnavailable WarningKind = "rate-source-unavailable"
)

// Warning describes a condition that was recovered from locally.
type Warning struct {
	Kind    WarningKind
	Row     int // 0 when the warning is not tied to a row
	Message string
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}
