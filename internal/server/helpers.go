package server

import (
	"errors"
	"strconv"
	"strings"
)

// parseID parses a positive uint from a route or query parameter value.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}
