package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parsePageLimit reads ?page= and ?limit=. Absent values take the defaults;
// present values must be positive integers.
func parsePageLimit(c *fiber.Ctx, defPage, defLimit int) (page, limit int, err error) {
	page, limit = defPage, defLimit
	if v := strings.TrimSpace(c.Query("page")); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = n
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		limit = n
	}
	return page, limit, nil
}
