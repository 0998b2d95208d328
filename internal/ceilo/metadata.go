package ceilo

import (
	"strconv"
	"strings"
)

// fields coerced to int when their merged value is a scalar.
var intFields = map[string]bool{
	"tilt_angle":     true,
	"message_number": true,
	"scale":          true,
}

// mergeMetadata concatenates the per-file header records into one mapping.
// Fields whose values are identical across all profiles collapse to a
// scalar. Scalars named in intFields and the elements of remaining arrays
// get best-effort integer coercion; values that do not parse keep their
// original string form.
func mergeMetadata(records []headerRecord) map[string]any {
	merged := make(headerRecord)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for key, values := range rec {
			merged[key] = values
		}
	}

	meta := make(map[string]any, len(merged))
	for key, values := range merged {
		if uniform(values) && len(values) > 0 {
			meta[key] = coerceScalar(key, values[0])
			continue
		}
		arr := make([]any, len(values))
		for i, v := range values {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				arr[i] = n
			} else {
				arr[i] = v
			}
		}
		meta[key] = arr
	}
	return meta
}

func uniform(values []string) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func coerceScalar(key, value string) any {
	if !intFields[key] {
		return value
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return n
}

// metaInt reads an integer-valued metadata field, accepting both coerced
// ints and uniform string scalars.
func metaInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
