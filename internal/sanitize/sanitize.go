// Package sanitize очищает ответ модели перед показом пользователю.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// Пробелом считаются и юникодные разделители (NBSP и т.п.), не только ASCII.
	hashtagPattern  = regexp.MustCompile(`#[^\s\v\p{Z}\x{FEFF}]+`)
	emojiPattern    = regexp.MustCompile(`[\x{1F600}-\x{1F6FF}]`)
	emphasisPattern = regexp.MustCompile(`\*\*|__|\*|_`)
)

// Text удаляет хэштеги, эмодзи из блока U+1F600–U+1F6FF и маркеры выделения,
// затем обрезает пробелы по краям. Порядок правил важен.
// Маркеры `*` и `_` удаляются везде, в том числе внутри слов.
func Text(raw string) string {
	out := hashtagPattern.ReplaceAllString(raw, "")
	out = emojiPattern.ReplaceAllString(out, "")
	out = emphasisPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
