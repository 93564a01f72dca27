package render

import (
	"sort"
	"strings"
)

// Placeholder tokens understood by the renderer.
const (
	TokenURL              = "[URL]"
	TokenTitle            = "[TITLE]"
	TokenCategory         = "[CATEGORY]"
	TokenIntroText        = "[INTROTEXT]"
	TokenFullText         = "[FULLTEXT]"
	TokenLink             = "[LINK]"
	TokenUsername         = "[USERNAME]"
	TokenName             = "[NAME]"
	TokenReceiverUsername = "[RECEIVER-USERNAME]"
	TokenReceiverName     = "[RECEIVER-NAME]"
	TokenUnsubscribeURL   = "[UNSUBSCRIBE-URL]"
)

// LineBreak is the marker used for line breaks in html mail bodies.
const LineBreak = "<br>"

// Context maps placeholder tokens to their values.
type Context map[string]string

// Render replaces every occurrence of every token present in ctx.
func Render(tmpl string, ctx Context) string {
	if len(ctx) == 0 || tmpl == "" {
		return tmpl
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if k != "" {
			keys = append(keys, k)
		}
	}
	// longest first so that a token never shadows a longer one sharing its prefix
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, ctx[k])
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// NormalizeLineBreaks turns literal "\n" escapes and real newlines into LineBreak.
func NormalizeLineBreaks(tmpl string) string {
	tmpl = strings.ReplaceAll(tmpl, "\r\n", "\n")
	tmpl = strings.ReplaceAll(tmpl, `\n`, LineBreak)
	return strings.ReplaceAll(tmpl, "\n", LineBreak)
}

// ComposeFullText returns the effective article body: the intro alone when
// full is empty, otherwise intro and full joined by LineBreak.
func ComposeFullText(intro, full string) string {
	intro = xhtmlBreaks(intro)
	full = xhtmlBreaks(full)

	if full == "" {
		return intro
	}
	return intro + LineBreak + full
}

// xhtmlBreaks rewrites <br> inside article text so it stays distinguishable
// from the marker inserted by the renderer.
func xhtmlBreaks(s string) string {
	return strings.ReplaceAll(s, "<br>", "<br />")
}
