package domain

import "strings"

const qatarPrefix = "974"

// Phone is a canonicalized Qatari phone number. The zero value is invalid;
// construct through NormalizePhone.
type Phone struct {
	core string // 8 digits, no country prefix
}

// NormalizePhone canonicalizes raw phone input. It strips every non-digit,
// drops a leading 974 country prefix and leading zeros, and requires an
// 8-digit core. Normalizing an already-normalized value yields the same value.
func NormalizePhone(raw string) (Phone, error) {
	d := DigitsOnly(raw)
	if strings.HasPrefix(d, qatarPrefix) {
		d = d[len(qatarPrefix):]
	}
	d = strings.TrimLeft(d, "0")
	if len(d) != 8 {
		return Phone{}, ErrInvalidPhoneFormat
	}
	return Phone{core: d}, nil
}

// E164 returns the full international form, e.g. "+97451270700".
func (p Phone) E164() string { return "+" + qatarPrefix + p.core }

// Local11 returns the 11-digit prefixed-local form, e.g. "97451270700".
func (p Phone) Local11() string { return qatarPrefix + p.core }

// Core returns the bare 8-digit local core.
func (p Phone) Core() string { return p.core }

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneVariants returns the loose match set for a raw phone input: the
// trimmed raw value, its digit string, and the digit string without the 974
// prefix. Callers needing loose matching compare stored phones against all
// of them; no length requirement is imposed here.
func PhoneVariants(raw string) []string {
	raw = strings.TrimSpace(raw)
	d := DigitsOnly(raw)
	core := d
	if strings.HasPrefix(d, qatarPrefix) && len(d) > len(qatarPrefix) {
		core = d[len(qatarPrefix):]
	}
	return []string{raw, d, core}
}

// NormalizePhone11 coerces raw input into the 11-digit prefixed-local form
// used for storage, tolerating inputs with or without the 974 prefix.
// Overlong digit strings are truncated to 11 digits.
func NormalizePhone11(raw string) string {
	d := DigitsOnly(raw)
	if !strings.HasPrefix(d, qatarPrefix) {
		d = qatarPrefix + d
	}
	if len(d) > 11 {
		d = d[:11]
	}
	return d
}
