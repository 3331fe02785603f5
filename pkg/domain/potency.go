package domain

import "math"

// Binding converts a log-scale activity value into a linear binding estimate,
// 10^(-value). An absent value yields an absent result. Values are not
// range-checked.
func Binding(value *float64) *float64 {
	if value == nil {
		return nil
	}
	b := math.Pow(10, -*value)
	return &b
}
