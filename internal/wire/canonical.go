package wire

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// canonicalize renders a JSON-decoded value as a deterministic string:
// object keys sorted, numbers in shortest form. Used as checksum input so
// the rendering must never depend on map iteration order.
func canonicalize(v any, sb *strings.Builder) error {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case string:
		sb.WriteString(strconv.Quote(val))
	case []any:
		sb.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := canonicalize(item, sb); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			if err := canonicalize(val[k], sb); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("canonicalize: unsupported type %T", v)
	}
	return nil
}
