// Package export renders published constants for consumers outside Go.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	// PHP renders define() statements that wp-config.php can require.
	PHP Format = "php"
	// Dotenv renders KEY="value" lines.
	Dotenv Format = "dotenv"
	// JSON renders a single object.
	JSON Format = "json"
	// YAML renders a single mapping.
	YAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{PHP, Dotenv, JSON, YAML}

// tablePrefixName is published as the $table_prefix global, not a constant.
const tablePrefixName = "table_prefix"

var (
	// ErrUnknownFormat is returned for format names that are not supported.
	ErrUnknownFormat = errors.New("unknown export format")
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// ContentType returns the MIME type used when serving f over HTTP.
func (f Format) ContentType() string {
	switch f {
	case JSON:
		return "application/json"
	case YAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes constants to w in the given format, ordered by name.
func Render(w io.Writer, f Format, constants map[string]any) error {
	var (
		out string
		err error
	)
	switch f {
	case PHP:
		out = renderPHP(constants)
	case Dotenv:
		out, err = renderDotenv(constants)
	case JSON:
		out, err = renderJSON(constants)
	case YAML:
		out, err = renderYAML(constants)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderPHP(constants map[string]any) string {
	var b strings.Builder
	b.WriteString("<?php\n")
	for _, name := range sortedNames(constants) {
		value := phpLiteral(constants[name])
		if name == tablePrefixName {
			fmt.Fprintf(&b, "$table_prefix = %s;\n", value)
			continue
		}
		fmt.Fprintf(&b, "defined('%s') || define('%s', %s);\n", name, name, value)
	}
	return b.String()
}

func phpLiteral(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		s := fmt.Sprint(t)
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `'`, `\'`)
		return "'" + s + "'"
	}
}

func renderDotenv(constants map[string]any) (string, error) {
	values := make(map[string]string, len(constants))
	for name, v := range constants {
		values[name] = fmt.Sprint(v)
	}
	out, err := godotenv.Marshal(values)
	if err != nil {
		return "", err
	}
	if out != "" {
		out += "\n"
	}
	return out, nil
}

func renderJSON(constants map[string]any) (string, error) {
	data, err := json.MarshalIndent(constants, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func renderYAML(constants map[string]any) (string, error) {
	data, err := yaml.Marshal(constants)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedNames(constants map[string]any) []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
