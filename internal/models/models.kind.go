// FilePath: internal/models/models.kind.go
package models

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three metric families the hub ingests.
type Kind string

const (
	KindSleep    Kind = "sleep"
	KindExercise Kind = "exercise"
	KindGlucose  Kind = "glucose"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindSleep, KindExercise, KindGlucose}

// ParseKind maps a user supplied name onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSleep:
		return KindSleep, nil
	case KindExercise:
		return KindExercise, nil
	case KindGlucose, "blood_glucose":
		return KindGlucose, nil
	}
	return "", fmt.Errorf("unknown metric kind %q", s)
}

// Table returns the relational table backing the kind.
func (k Kind) Table() string {
	switch k {
	case KindSleep:
		return "sleep_data"
	case KindExercise:
		return "exercise_data"
	case KindGlucose:
		return "blood_glucose"
	}
	return ""
}

func (k Kind) String() string {
	return string(k)
}
