package meta

import "strings"

// dimensionSuffix maps an engine dimension index to its axis letter.
var dimensionSuffix = [...]string{"x", "y", "z", "w"}

// Normalize returns the lookup key for a kind, member, or enum-value name:
// every space removed and every character lowercased.
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// withDimension appends the axis letter for dim to an already normalized
// name. Negative dimensions leave the name unchanged.
func withDimension(name string, dim int) string {
	if dim < 0 || dim >= len(dimensionSuffix) {
		return name
	}
	return name + dimensionSuffix[dim]
}
