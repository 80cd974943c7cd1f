package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "hashtags", in: "Great tip #AI #2025 today", want: "Great tip   today"},
		{name: "emphasis", in: "**Bold** and _italic_ text", want: "Bold and italic text"},
		{name: "trim", in: "  hello  ", want: "hello"},
		{name: "emoji block", in: "Launch 😀🚀 day 🙏", want: "Launch  day"},
		{name: "emoji outside block kept", in: "Heart ❤ stays", want: "Heart ❤ stays"},
		{name: "underscores inside words", in: "snake_case_name", want: "snakecasename"},
		{name: "double underscore", in: "__init__", want: "init"},
		{name: "hashtag eats punctuation", in: "Done #shipIt! Next", want: "Done  Next"},
		{name: "lone hash kept", in: "Item # 5", want: "Item # 5"},
		{name: "hashtag stops at nbsp", in: "Hi #tag\u00a0there", want: "Hi \u00a0there"},
		{name: "empty", in: "", want: ""},
		{name: "entirely stripped", in: " #one #two 😀 ** ", want: ""},
		{name: "end to end", in: "Hello **world** #AI 😀", want: "Hello world"},
		{name: "line breaks kept", in: "Line one\n\n**Line** two\n#tags #here", want: "Line one\n\nLine two"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.in))
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"Great tip #AI #2025 today",
		"**Bold** and _italic_ text",
		"_#tag_ 😀*x*",
		"#\n#a\t##b",
		"  ***___***  ",
		"plain text",
		" nbsp #x ",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}
