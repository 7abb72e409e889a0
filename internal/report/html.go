// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1f2933;line-height:1.5}` +
	`table{border-collapse:collapse;margin:1rem 0}th,td{border:1px solid #cbd2d9;padding:.3rem .6rem;text-align:left}` +
	`th{background:#f0f4f8}h1{border-bottom:2px solid #334e68}h2{margin-top:2rem;color:#334e68}`

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders r as a standalone HTML page. The Markdown rendering is the
// source; goldmark converts it with GitHub tables.
func HTML(w io.Writer, r *types.ResearchReport) error {
	var src bytes.Buffer
	if err := Markdown(&src, r); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}
	_, err := fmt.Fprintf(w,
		"<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head>\n<body>\n%s</body></html>\n",
		html.EscapeString("Research Report: "+r.Query), pageStyle, body.String())
	return err
}
