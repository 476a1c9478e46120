package span

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// entityAt reports the length of a character reference starting at s[0],
// or 0. Named references must be known html5 entities.
func entityAt(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	end := strings.IndexByte(s, ';')
	if end < 2 || end > 40 {
		return 0
	}
	body := s[1:end]
	if body[0] == '#' {
		if _, ok := numericEntity(body[1:]); !ok {
			return 0
		}
		return end + 1
	}
	for i := 0; i < len(body); i++ {
		if !isAlnum(body[i]) {
			return 0
		}
	}
	if _, ok := util.LookUpHTML5EntityByName(body); !ok {
		return 0
	}
	return end + 1
}

func numericEntity(s string) (rune, bool) {
	base, digits := 10, s
	if len(s) > 0 && (s[0] == 'x' || s[0] == 'X') {
		base, digits = 16, s[1:]
	}
	if digits == "" || len(digits) > 7 {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// decodeEntity returns the characters a validated reference stands for.
func decodeEntity(ref string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(ref, "&"), ";")
	if strings.HasPrefix(body, "#") {
		if r, ok := numericEntity(body[1:]); ok {
			return string(r)
		}
		return ref
	}
	if e, ok := util.LookUpHTML5EntityByName(body); ok {
		return string(e.Characters)
	}
	return ref
}
