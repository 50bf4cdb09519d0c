package export

import "strings"

// SanitizeFilename 把标题中所有非 ASCII 字母数字字符替换为下划线，空标题返回 "cv"。
func SanitizeFilename(title string) string {
	if title == "" {
		return "cv"
	}
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
