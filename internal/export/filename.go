package export

import (
	"strings"
	"unicode"
)

const defaultFilename = "coloring-book"

// Filename 将书名转换为安全的文件名（不含扩展名）
// 空白变为下划线，只保留 ASCII 字母、数字、下划线和连字符
func Filename(title string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'):
			sb.WriteRune(r)
		}
	}

	name := sb.String()
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "_")
	if name == "" {
		return defaultFilename
	}
	return name
}
