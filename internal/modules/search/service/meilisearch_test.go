package service

import (
	"testing"
	"time"

	"anoa.com/blogfeed/internal/entity"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestCleanTextForIndex(t *testing.T) {
	p := bluemonday.StrictPolicy()

	tests := map[string]string{
		"plain text":                       "plain text",
		"<p>first</p><p>second</p>":        "first second",
		"line<br>break":                    "line break",
		"<script>alert(1)</script>visible": "visible",
		"  lots   of\n\nspace ":            "lots of space",
		"fish &amp; chips":                 "fish & chips",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanTextForIndex(p, in), in)
	}
}

func TestBuildPostDoc(t *testing.T) {
	pub := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	post := &entity.Post{
		ID:      7,
		Text:    "<b>hello</b>",
		PubDate: pub,
		Author:  entity.User{Username: "author"},
	}

	doc := buildPostDoc(bluemonday.StrictPolicy(), post)
	assert.Equal(t, meiliPostDoc{ID: 7, Text: "hello", Author: "author", PubDate: pub.Unix()}, doc)

	post.Group = &entity.Group{Slug: "cats"}
	assert.Equal(t, "cats", buildPostDoc(bluemonday.StrictPolicy(), post).GroupSlug)
}
