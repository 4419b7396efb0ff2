package fsops

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SupportedEncoding reports whether name is an encoding the engine can read
// and write. The empty name means UTF-8 passthrough.
func SupportedEncoding(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "latin-1", "latin1", "iso-8859-1", "windows-1252", "ascii", "utf-16", "utf-16le", "utf-16be":
		return true
	}
	return false
}

// DecodeContent converts raw file bytes in the named encoding to a UTF-8
// string.
func DecodeContent(data []byte, name string) (string, error) {
	enc := encodingByName(name)
	if enc == nil {
		return string(data), nil
	}

	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode %s content: %w", name, err)
	}
	return string(decoded), nil
}

// EncodeContent converts a UTF-8 string to raw bytes in the named encoding.
func EncodeContent(content string, name string) ([]byte, error) {
	enc := encodingByName(name)
	if enc == nil {
		return []byte(content), nil
	}

	var buf bytes.Buffer
	writer := transform.NewWriter(&buf, enc.NewEncoder())
	if _, err := writer.Write([]byte(content)); err != nil {
		return nil, fmt.Errorf("encode %s content: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("encode %s content: %w", name, err)
	}
	return buf.Bytes(), nil
}

func encodingByName(name string) encoding.Encoding {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "ascii":
		return nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	case "utf-16", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return nil
	}
}
