package symbol

import "fmt"

// GuaranteeViolation is the panic value raised when an internal invariant
// does not hold. It is never recovered by this module.
type GuaranteeViolation struct {
	Message string
}

func (g *GuaranteeViolation) Error() string {
	return "guarantee violated: " + g.Message
}

// Guarantee panics with a *GuaranteeViolation if cond is false.
// Unlike an assertion it is always checked.
func Guarantee(cond bool, message string) {
	if !cond {
		panic(&GuaranteeViolation{Message: message})
	}
}

// Guaranteef is Guarantee with a formatted message. Prefer Guarantee on hot
// paths; the variadic arguments are built even when cond holds.
func Guaranteef(cond bool, format string, args ...any) {
	if !cond {
		panic(&GuaranteeViolation{Message: fmt.Sprintf(format, args...)})
	}
}

// ShouldNotReachHere always panics.
func ShouldNotReachHere(message string) {
	panic(&GuaranteeViolation{Message: "should not reach here: " + message})
}
