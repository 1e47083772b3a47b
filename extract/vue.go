package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"baseliner/common"
)

// Vue CSS-in-JS libraries recognized in script blocks. Their styles are
// left to the CSS-in-JS front-end.
var vueStyleLibraries = []string{"vue-styled-components", "pinceau"}

const maxReportedParseErrors = 3

type sfcBlock struct {
	tag     string
	attrs   map[string]string
	content string
	offset  int // of content
}

// Vue extracts <style> blocks of a single file component.
func (e *Extractor) Vue(_ context.Context, src []byte, sourcePath string) (res Result) {
	res.Source = sourcePath
	defer e.guard(&res, "vue")

	blocks, problems, err := splitSFC(src)
	if err != nil {
		res.errorf("Failed to parse Vue SFC %s: %v", sourcePath, err)
		return res
	}
	for i, p := range problems {
		if i == maxReportedParseErrors {
			res.errorf("... and %d more parse errors", len(problems)-maxReportedParseErrors)
			break
		}
		res.errorf("Parse error: %s", p)
	}

	for _, b := range blocks {
		switch b.tag {
		case "style":
			e.vueStyle(b, src, &res)
		case "script":
			for _, lib := range vueStyleLibraries {
				if strings.Contains(b.content, lib) {
					res.errorf("Detected Vue CSS-in-JS library %q in script, analyze the script with the CSS-in-JS front-end instead", lib)
					break
				}
			}
		}
	}

	e.log.Debug("Vue styles extracted", zap.String("source", sourcePath),
		zap.Int("fragments", len(res.Fragments)), zap.Int("errors", len(res.Errors)))
	return res
}

func (e *Extractor) vueStyle(b sfcBlock, src []byte, res *Result) {
	lang := strings.ToLower(strings.TrimSpace(b.attrs["lang"]))
	if lang != "" && lang != "css" && lang != "postcss" {
		res.errorf("Skipping <style lang=%q>: preprocessors are not supported, use compiled CSS or declare features manually", lang)
		return
	}
	if lang == "" {
		lang = "css"
	}

	text := strings.TrimSpace(b.content)
	if text == "" {
		return
	}
	_, scoped := b.attrs["scoped"]
	_, module := b.attrs["module"]

	lead := len(b.content) - len(strings.TrimLeft(b.content, " \t\r\n"))
	res.Fragments = append(res.Fragments, Fragment{
		CSS:     text,
		Origin:  common.OriginVueSfc,
		Pattern: "style block",
		Loc:     location(res.Source, src, b.offset+lead),
		Scoped:  scoped,
		Module:  module,
		Lang:    lang,
	})
}

// splitSFC returns top level blocks of a component in source order. Tags
// inside <template> are not blocks. Structural problems that do not prevent
// extraction are returned as descriptions.
func splitSFC(src []byte) ([]sfcBlock, []string, error) {
	var (
		z        = html.NewTokenizer(bytes.NewReader(src))
		blocks   []sfcBlock
		problems []string
		current  *sfcBlock
		depth    int // <template> nesting
		offset   int
		scripts  = map[bool]int{}
	)

	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, nil, err
			}
			if current != nil {
				problems = append(problems, fmt.Sprintf("element <%s> is missing end tag", current.tag))
				blocks = append(blocks, *current)
			}
			if depth > 0 {
				problems = append(problems, "element <template> is missing end tag")
			}
			return blocks, problems, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "template" {
				if tt == html.StartTagToken {
					depth++
				}
				continue
			}
			if depth > 0 || current != nil || (tag != "style" && tag != "script") {
				continue
			}
			b := sfcBlock{tag: tag, attrs: map[string]string{}, offset: offset}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				b.attrs[string(k)] = string(v)
			}
			if tag == "script" {
				_, setup := b.attrs["setup"]
				if scripts[setup]++; scripts[setup] > 1 {
					if setup {
						problems = append(problems, "single file component can contain only one <script setup> element")
					} else {
						problems = append(problems, "single file component can contain only one <script> element")
					}
				}
			}
			if tt == html.SelfClosingTagToken {
				blocks = append(blocks, b)
				continue
			}
			current = &b

		case html.TextToken:
			if current != nil {
				if current.content == "" {
					current.offset = start
				}
				current.content += string(raw)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "template" {
				if depth > 0 {
					depth--
				} else {
					problems = append(problems, "invalid end tag </template>")
				}
				continue
			}
			if current != nil && tag == current.tag {
				blocks = append(blocks, *current)
				current = nil
			}
		}
	}
}
