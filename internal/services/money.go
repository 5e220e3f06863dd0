package services

import "fmt"

// formatAmount renders integer cents as a decimal string for
// notification and email copy ("1550" -> "15.50").
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
