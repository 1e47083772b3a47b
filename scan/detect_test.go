package scan

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

func encodeWithTransformer(t *testing.T, data []byte, tr transform.Transformer) []byte {
	t.Helper()
	out, _, err := transform.Bytes(tr, data)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func encodedSource(t *testing.T, data []byte, enc srcEncoding) []byte {
	t.Helper()
	switch enc {
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, data...)
	case encUTF16BigEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder())
	case encUTF16LittleEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	case encUTF32BigEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder())
	case encUTF32LittleEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder())
	}
	return data
}

func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x2E}, encUTF8},
		{"UTF-16 Big Endian BOM", []byte{0xFE, 0xFF, 0x00, 0x2E}, encUTF16BigEndian},
		{"UTF-16 Little Endian BOM", []byte{0xFF, 0xFE, 0x2E, 0x00}, encUTF16LittleEndian},
		{"UTF-32 Big Endian BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, encUTF32BigEndian},
		{"UTF-32 Little Endian BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, encUTF32LittleEndian},
		{"No BOM", []byte(".a { color: red }"), encUnknown},
		{"Short", []byte{0xEF}, encUnknown},
		{"Empty", nil, encUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectUTF(tt.buf); got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBOMDetectionFunctions(t *testing.T) {
	if !isUTF8BOM3([]byte{0xEF, 0xBB, 0xBF}) || isUTF8BOM3([]byte{0xEF, 0xBB}) {
		t.Error("isUTF8BOM3")
	}
	if !isUTF16BigEndianBOM2([]byte{0xFE, 0xFF}) || isUTF16BigEndianBOM2([]byte{0xFF, 0xFE}) {
		t.Error("isUTF16BigEndianBOM2")
	}
	if !isUTF16LittleEndianBOM2([]byte{0xFF, 0xFE}) || isUTF16LittleEndianBOM2([]byte{0xFE, 0xFF}) {
		t.Error("isUTF16LittleEndianBOM2")
	}
	if !isUTF32BigEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) || isUTF32BigEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) {
		t.Error("isUTF32BigEndianBOM4")
	}
	if !isUTF32LittleEndianBOM4([]byte{0xFF, 0xFE, 0x00, 0x00}) || isUTF32LittleEndianBOM4([]byte{0x00, 0x00, 0xFE, 0xFF}) {
		t.Error("isUTF32LittleEndianBOM4")
	}
}

func TestDecodeSource(t *testing.T) {
	const src = ".card { display: grid; content: \"é\"; }"

	for _, enc := range []srcEncoding{
		encUnknown,
		encUTF8,
		encUTF16BigEndian,
		encUTF16LittleEndian,
		encUTF32BigEndian,
		encUTF32LittleEndian,
	} {
		t.Run(enc.String(), func(t *testing.T) {
			got, detected, err := decodeSource(encodedSource(t, []byte(src), enc))
			if err != nil {
				t.Fatalf("decodeSource() error = %v", err)
			}
			if detected != enc {
				t.Errorf("detected %v, want %v", detected, enc)
			}
			if string(got) != src {
				t.Errorf("decodeSource() = %q, want %q", got, src)
			}
		})
	}
}

func TestSelectReader(t *testing.T) {
	r := selectReader(bytes.NewReader([]byte("a{}")), encUnknown)
	data, err := io.ReadAll(r)
	if err != nil || string(data) != "a{}" {
		t.Errorf("selectReader(encUnknown) = %q, %v", data, err)
	}
}

func TestSelectReader_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for invalid encoding, but didn't panic")
		}
	}()
	selectReader(bytes.NewReader([]byte("test")), srcEncoding(999))
}

func TestIsBinary(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	tests := []struct {
		name string
		head []byte
		want bool
	}{
		{"png", png, true},
		{"css", []byte(".a { color: red; }"), false},
		{"script", []byte("import styled from 'styled-components'"), false},
		{"utf-16 text", []byte{0xFF, 0xFE, 0x2E, 0x00}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		if got := isBinary(tt.head); got != tt.want {
			t.Errorf("isBinary(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	plain := filepath.Join(tmpDir, "bundle.zip")
	if err := os.WriteFile(plain, []byte("not a bundle zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, err := isArchiveFile(plain); err != nil || got {
		t.Errorf("isArchiveFile(fake zip) = %v, %v", got, err)
	}

	bundle := filepath.Join(tmpDir, "components.bundle")
	zf, err := os.Create(bundle)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(zf)
	fw, err := w.Create("card.css")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(".card { display: grid; }"))
	w.Close()
	zf.Close()

	if got, err := isArchiveFile(bundle); err != nil || !got {
		t.Errorf("isArchiveFile(zip) = %v, %v", got, err)
	}

	if _, err := isArchiveFile(filepath.Join(tmpDir, "absent.zip")); err == nil {
		t.Error("Expected error for non-existent file")
	}
}
