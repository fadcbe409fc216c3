package escalation

import (
	"strconv"
	"strings"
)

// FormatSeconds renders n as "H hours M minutes S seconds".
//
// Leading zero units are dropped, but once a higher unit is present every
// lower unit is printed, zero or not. Hours are not folded into days.
func FormatSeconds(n int64) string {
	if n < 0 {
		n = 0
	}
	h := n / 3600
	m := (n % 3600) / 60
	s := n % 60

	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, unit(h, "hour"))
	}
	if h > 0 || m > 0 {
		parts = append(parts, unit(m, "minute"))
	}
	parts = append(parts, unit(s, "second"))
	return strings.Join(parts, " ")
}

func unit(v int64, name string) string {
	if v == 1 {
		return "1 " + name
	}
	return strconv.FormatInt(v, 10) + " " + name + "s"
}
