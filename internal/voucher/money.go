package voucher

import "strconv"

// FormatAmount renders an amount in the smallest currency unit with dot
// thousands separators, e.g. 100000 -> "100.000".
func FormatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, '.')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}

	if neg {
		return "-" + s
	}
	return s
}
