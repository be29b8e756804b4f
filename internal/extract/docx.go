package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// wordprocessingML element names that separate text runs.
var separators = map[string]bool{
	"p":   true,
	"tab": true,
	"br":  true,
	"cr":  true,
}

func parseDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx package: %w", err)
	}
	defer doc.Close()

	return bodyText(doc.Editable().GetContent())
}

// bodyText walks document.xml and concatenates the w:t text nodes.
func bodyText(body string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var (
		builder strings.Builder
		inText  bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document body: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
			if separators[el.Name.Local] {
				builder.WriteString(" ")
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				builder.Write(el)
			}
		}
	}

	return collapse(builder.String()), nil
}
