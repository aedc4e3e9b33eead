package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeeds renders a seed list the way the engine's --seeds flag expects
func FormatSeeds(seeds []int) string {
	parts := make([]string, len(seeds))
	for i, s := range seeds {
		parts[i] = strconv.Itoa(s)
	}

	return strings.Join(parts, ",")
}

// ParseSeeds parses a comma-separated seed list
func ParseSeeds(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	seeds := make([]int, 0, len(parts))

	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", part, err)
		}

		seeds = append(seeds, n)
	}

	return seeds, nil
}

// FormatFloat renders a float the way the engine's flags expect, with no
// trailing zeros
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
