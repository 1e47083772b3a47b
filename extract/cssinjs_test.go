package extract_test

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"baseliner/common"
	"baseliner/extract"
)

func TestCSSInJS_StyledComponentsInterpolation(t *testing.T) {
	e := extract.New(extract.Options{}, zaptest.NewLogger(t))

	src := "import styled from 'styled-components';\n\n" +
		"export const Button = styled.button`display: grid; color: ${p => p.color}; padding: 16px;`;\n"

	res := e.CSSInJS(context.Background(), []byte(src), "Button.tsx")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %+v", res.Fragments)
	}

	f := res.Fragments[0]
	for _, want := range []string{"display: grid", extract.Placeholder, "padding: 16px"} {
		if !strings.Contains(f.CSS, want) {
			t.Errorf("fragment %q does not contain %q", f.CSS, want)
		}
	}
	if strings.Contains(f.CSS, "p.color") {
		t.Errorf("interpolation source leaked into CSS: %q", f.CSS)
	}
	if f.Interpolations != 1 {
		t.Errorf("Interpolations = %d, want 1", f.Interpolations)
	}
	if f.Origin != common.OriginStyledComponents || f.Pattern != "styled component" {
		t.Errorf("origin/pattern = %s/%s", f.Origin, f.Pattern)
	}
	if f.Loc.Line != 3 || f.Loc.Source != "Button.tsx" {
		t.Errorf("location = %v", f.Loc)
	}
}

func TestCSSInJS_StyledComponentsPatterns(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	src := `import styled, { css, createGlobalStyle, keyframes } from 'styled-components';

const fade = keyframes` + "`from { opacity: 0; } to { opacity: 1; }`" + `;
const GlobalStyle = createGlobalStyle` + "`body { margin: 0; }`" + `;
const mixin = css` + "`&:has(> img) { padding: ${({ $p }) => $p}px; }`" + `;
const Link = styled(Anchor)` + "`text-decoration: none;`" + `;
const Input = styled.input.attrs({ type: 'text' })` + "`accent-color: red;`" + `;
const Empty = styled.div` + "`   `" + `;
const notStyles = html` + "`<div></div>`" + `;
`
	res := e.CSSInJS(context.Background(), []byte(src), "styles.js")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	want := []struct {
		pattern string
		snippet string
	}{
		{"keyframes animation", "opacity: 0"},
		{"global styles", "margin: 0"},
		{"css helper", "&:has(> img)"},
		{"styled component", "text-decoration: none"},
		{"styled component", "accent-color: red"},
	}
	if len(res.Fragments) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(res.Fragments), res.Fragments)
	}
	for i, w := range want {
		f := res.Fragments[i]
		if f.Pattern != w.pattern || !strings.Contains(f.CSS, w.snippet) {
			t.Errorf("fragment[%d] = %s %q, want %s containing %q", i, f.Pattern, f.CSS, w.pattern, w.snippet)
		}
		if f.Origin != common.OriginStyledComponents {
			t.Errorf("fragment[%d] origin = %s", i, f.Origin)
		}
	}
}

func TestCSSInJS_IgnoreInterpolations(t *testing.T) {
	e := extract.New(extract.Options{IgnoreInterpolations: true}, nil)

	src := "const A = styled.div`color: ${c}; gap: ${g};`;"
	res := e.CSSInJS(context.Background(), []byte(src), "a.jsx")
	if len(res.Fragments) != 1 {
		t.Fatalf("fragments = %+v, errors = %v", res.Fragments, res.Errors)
	}
	f := res.Fragments[0]
	if f.CSS != "color: ; gap: ;" || f.Interpolations != 2 {
		t.Errorf("fragment = %q (%d interpolations)", f.CSS, f.Interpolations)
	}
}

func TestCSSInJS_Emotion(t *testing.T) {
	e := extract.New(extract.Options{}, zaptest.NewLogger(t))

	src := `/** @jsxImportSource @emotion/react */
import { css, Global } from '@emotion/react';
import styled from '@emotion/styled';

const base = css({ display: 'flex', gap: 8, '&:focus-visible': { outlineOffset: 2 } });
const Card = styled.div({ aspectRatio: '16 / 9', padding: 12 });

export function App({ color }) {
  return (
    <div css={{ containerType: 'inline-size', color: color, zIndex: 2 }}>
      <span css={css` + "`inset-inline: 0; color: ${color};`" + `}>x</span>
      <Global styles={{ body: { margin: 0 } }} />
    </div>
  );
}
`
	res := e.CSSInJS(context.Background(), []byte(src), "App.jsx")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Fragments) != 4 {
		t.Fatalf("expected 4 fragments, got %+v", res.Fragments)
	}

	want := []struct {
		pattern string
		css     string
	}{
		{"css() function", "display: flex;\ngap: 8px;\n&:focus-visible {\n  outline-offset: 2px;\n}"},
		{"styled component", "aspect-ratio: 16 / 9;\npadding: 12px;"},
		{"css prop (object)", "container-type: inline-size;\nz-index: 2;"},
		{"css prop (template)", "inset-inline: 0; color: " + extract.Placeholder + ";"},
	}
	for i, w := range want {
		f := res.Fragments[i]
		if f.Origin != common.OriginEmotion {
			t.Errorf("fragment[%d] origin = %s", i, f.Origin)
		}
		if f.Pattern != w.pattern || f.CSS != w.css {
			t.Errorf("fragment[%d] = %s\n%s\nwant %s\n%s", i, f.Pattern, f.CSS, w.pattern, w.css)
		}
	}
}

func TestCSSInJS_Stitches(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	src := `import { styled, css, globalCss } from '@stitches/react';

export const Button = styled('button', {
  display: 'inline-flex',
  padding: '$space$2',
  backgroundColor: '$primary',
  '&:hover': { translate: '0 -1px' },
  variants: {
    size: { small: { fontSize: 12 } },
  },
  compoundVariants: [],
  defaultVariants: { size: 'small' },
});

const global = globalCss({ '@font-face': { fontFamily: 'Inter', fontDisplay: 'swap' } });
const plain = css({ opacity: 0.5 });
`
	res := e.CSSInJS(context.Background(), []byte(src), "Button.ts")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %+v", res.Fragments)
	}

	btn := res.Fragments[0]
	if btn.Origin != common.OriginStitches || !btn.HasVariants {
		t.Errorf("button fragment = %+v", btn)
	}
	if want := "display: inline-flex;\n&:hover {\n  translate: 0 -1px;\n}"; btn.CSS != want {
		t.Errorf("button css = %q, want %q", btn.CSS, want)
	}
	if strings.Contains(btn.CSS, "font-size") || strings.Contains(btn.CSS, "$") {
		t.Errorf("variants or tokens leaked: %q", btn.CSS)
	}

	global := res.Fragments[1]
	if global.Pattern != "global styles" || global.HasVariants {
		t.Errorf("global fragment = %+v", global)
	}
	if want := "@font-face {\n  font-family: Inter;\n  font-display: swap;\n}"; global.CSS != want {
		t.Errorf("global css = %q", global.CSS)
	}

	if res.Fragments[2].CSS != "opacity: 0.5;" {
		t.Errorf("css() fragment = %q", res.Fragments[2].CSS)
	}
}

func TestCSSInJS_UnimportedFallbacks(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	// typical createStitches setup: helpers come from a local config module
	src := `import { styled } from './stitches.config';
const Box = styled('div', { display: 'grid' });
const x = css({ display: 'flex' });
`
	res := e.CSSInJS(context.Background(), []byte(src), "box.ts")
	if len(res.Fragments) != 2 {
		t.Fatalf("fragments = %+v, errors = %v", res.Fragments, res.Errors)
	}
	if res.Fragments[0].Origin != common.OriginStitches {
		t.Errorf("styled(tag, object) origin = %s", res.Fragments[0].Origin)
	}
	if res.Fragments[1].Origin != common.OriginEmotion {
		t.Errorf("css(object) origin = %s", res.Fragments[1].Origin)
	}
}

func TestCSSInJS_VueFlavors(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	src := `import styled from 'vue-styled-components';
import { css } from 'pinceau';

const Btn = styled('button', { display: 'grid', '&:hover': { color: 'red' } });
const theme = css({ padding: '$space.4', margin: 4 });
`
	res := e.CSSInJS(context.Background(), []byte(src), "Btn.js")
	if len(res.Fragments) != 2 {
		t.Fatalf("fragments = %+v, errors = %v", res.Fragments, res.Errors)
	}
	if f := res.Fragments[0]; f.Origin != common.OriginVueStyledComponents || f.CSS != "display: grid;" {
		t.Errorf("vue-styled-components fragment = %+v", f)
	}
	if f := res.Fragments[1]; f.Origin != common.OriginPinceau || f.CSS != "margin: 4px;" {
		t.Errorf("pinceau fragment = %+v", f)
	}
}

func TestCSSInJS_LibraryFilter(t *testing.T) {
	libs, err := extract.ParseLibraries([]string{"emotion"})
	if err != nil {
		t.Fatal(err)
	}
	e := extract.New(extract.Options{Libraries: libs}, nil)

	src := "import { css } from '@emotion/react';\n" +
		"const a = styled.div`display: grid;`;\n" +
		"const b = css({ display: 'flex' });\n"
	res := e.CSSInJS(context.Background(), []byte(src), "mixed.js")
	if len(res.Fragments) != 1 || res.Fragments[0].Origin != common.OriginEmotion {
		t.Errorf("fragments = %+v", res.Fragments)
	}

	if libs, err := extract.ParseLibraries([]string{"emotion", "all"}); err != nil || libs != nil {
		t.Errorf("ParseLibraries(all) = %v, %v", libs, err)
	}
	if _, err := extract.ParseLibraries([]string{"tailwind"}); err == nil {
		t.Error("expected error for unknown library")
	}
}

func TestCSSInJS_SyntaxError(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	res := e.CSSInJS(context.Background(), []byte("const a = styled.div`x`;\nfunction ( {"), "broken.js")
	if len(res.Fragments) != 0 {
		t.Errorf("fragments from broken source: %+v", res.Fragments)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "broken.js") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestCSSInJS_NothingToExtract(t *testing.T) {
	e := extract.New(extract.Options{}, nil)

	res := e.CSSInJS(context.Background(), []byte("export const sum = (a, b) => a + b;\n"), "sum.js")
	if len(res.Fragments) != 0 || len(res.Errors) != 0 {
		t.Errorf("result = %+v", res)
	}
}
