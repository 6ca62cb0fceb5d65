package shared

import (
	"strings"

	"slotbook/shared/constant"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins prefix and the non-empty parts into a single cache key.
func BuildCacheKey(prefix string, parts ...string) string {
	key := make([]string, 0, len(parts)+1)
	key = append(key, prefix)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == constant.Empty {
			continue
		}

		key = append(key, part)
	}

	return strings.Join(key, cacheKeySeparator)
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != constant.Empty {
			return value
		}
	}

	return constant.Empty
}
