package ticket

import "strings"

const sortKeyDigits = 6

// MakeSortKey left-pads the number of a ticket key with zeros to six digits so
// keys sort numerically: "ABC-9" becomes "ABC-000009". Longer numbers are kept
// and keys without "-" are returned unchanged.
func MakeSortKey(key string) string {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return key
	}
	num := key[i+1:]
	if len(num) >= sortKeyDigits {
		return key
	}
	return key[:i+1] + strings.Repeat("0", sortKeyDigits-len(num)) + num
}
