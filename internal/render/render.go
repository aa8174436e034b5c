// render печатает отчёт для CLI: человекочитаемый текст, JSON или YAML.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

// Format - формат вывода отчёта.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat - неподдерживаемое значение --format.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat разбирает значение флага без учёта регистра.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, s)
	}
}

// Write печатает отчёт в формате f.
func Write(w io.Writer, f Format, r *models.Report) error {
	switch f {
	case FormatText:
		return Text(w, r)
	case FormatJSON:
		return JSON(w, r)
	case FormatYAML:
		return YAML(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// JSON печатает тот же документ, что отдаёт GET /notes.
func JSON(w io.Writer, r *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.NewNotesResponse(r))
}

// YAML печатает документ GET /notes в YAML. Порядок ключей совпадает с JSON:
// документ сначала кодируется в JSON и читается как yaml.Node.
func YAML(w io.Writer, r *models.Report) error {
	raw, err := json.Marshal(models.NewNotesResponse(r))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("to_yaml: %w", err)
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// blockStyle сбрасывает flow/quoted-стили, унаследованные от JSON.
// Строки, которые без кавычек прочитались бы иначе, энкодер закавычит сам.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
