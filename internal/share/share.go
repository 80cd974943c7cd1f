// Package share строит ссылку на создание поста в LinkedIn с готовым текстом.
package share

import "net/url"

const linkedInComposeURL = "https://www.linkedin.com/post/new"

// LinkedInURL возвращает ссылку, открывающую редактор поста с текстом text.
// Пустой текст даёт пустую строку: делиться нечем.
func LinkedInURL(text string) string {
	if text == "" {
		return ""
	}
	return linkedInComposeURL + "?postText=" + url.QueryEscape(text)
}
