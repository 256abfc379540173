package rowsource

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TypeOf classifies a dynamically typed value.
//
// Integers of any width and bools are TypeInteger, floats are TypeFloat,
// strings and times are TypeString, byte slices are TypeBlob and nil is
// TypeNull. Any other value is reported as TypeString.
func TypeOf(v any) ColumnType {
	switch v.(type) {
	case nil:
		return TypeNull
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return TypeInteger
	case float32, float64:
		return TypeFloat
	case []byte:
		return TypeBlob
	default:
		return TypeString
	}
}

// AsInt coerces v to an int64.
//
// Floats truncate toward zero, text is parsed by its longest numeric prefix
// and anything else reads as 0.
func AsInt(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return clampUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return clampUint(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case string:
		return parseIntPrefix(x)
	case []byte:
		return parseIntPrefix(string(x))
	default:
		return 0
	}
}

// AsFloat coerces v to a float64.
func AsFloat(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case string:
		return parseFloatPrefix(x)
	case []byte:
		return parseFloatPrefix(string(x))
	case nil:
		return 0
	default:
		if TypeOf(v) == TypeInteger {
			return float64(AsInt(v))
		}
		return 0
	}
}

// AsString coerces v to its text form. Null reads as the empty string.
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case uint64:
		return strconv.FormatUint(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case interface{ String() string }:
		return x.String()
	default:
		if TypeOf(v) == TypeInteger {
			return strconv.FormatInt(AsInt(v), 10)
		}
		return ""
	}
}

// AsBlob coerces v to bytes. Null reads as nil; the result may alias v.
func AsBlob(v any) []byte {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return x
	default:
		return []byte(AsString(v))
	}
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func parseIntPrefix(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if i, err := strconv.ParseInt(s[:end], 10, 64); err == nil {
		return i
	}
	// Not an integer literal, but it may still be a real number ("2.5", "1e3").
	return floatToInt(parseFloatPrefix(s))
}

func parseFloatPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
	}
	return 0
}
