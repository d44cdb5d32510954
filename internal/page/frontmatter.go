package page

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter strips a leading YAML front matter section fenced by
// lines of exactly "---". Without an opening fence, or without a closing
// one, the source passes through untouched; the latter keeps documents
// that open with a thematic break parseable. Malformed YAML between two
// fences is an error.
func splitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta

	first, rest, ok := cutLine(src)
	if !ok || !isFence(first) {
		return meta, src, nil
	}

	var body []byte
	for {
		line, tail, more := cutLine(rest)
		if isFence(line) {
			if err := yaml.Unmarshal(body, &meta); err != nil {
				return Meta{}, nil, fmt.Errorf("front matter: %w", err)
			}
			return meta, tail, nil
		}
		body = append(body, line...)
		body = append(body, '\n')
		if !more {
			return Meta{}, src, nil
		}
		rest = tail
	}
}

func isFence(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == "---"
}

func cutLine(b []byte) (line, rest []byte, ok bool) {
	idx := bytes.IndexByte(b, '\n')
	if idx < 0 {
		return b, nil, false
	}
	return b[:idx], b[idx+1:], true
}
