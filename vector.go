package webqa

import (
	"strconv"
	"strings"
)

// FormatVector encodes an embedding as a literal numeric list such as
// "[0.25, -1.5e-05]". Each element is written with the shortest decimal
// representation that parses back to the identical float32.
func FormatVector(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseVector decodes a literal numeric list written by FormatVector or by
// any producer of bracketed, comma-separated decimals. Values are rounded to
// the nearest float32.
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, Errorf(ECORPUSIO, "vector literal must be bracketed: %.32q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float32{}, nil
	}

	parts := strings.Split(body, ",")
	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, Errorf(ECORPUSIO, "vector element %d: %v", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
