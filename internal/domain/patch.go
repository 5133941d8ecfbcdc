package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const entryIndent = "    "

// AppendEntries splices new entries for records into the original document
// text just before its final closing brace.
//
// Every byte before that brace is kept as-is apart from trailing whitespace,
// so existing entries are never re-serialized or reordered. A separating comma
// is added only when the object already has entries. With no records the
// original is returned unchanged.
func AppendEntries(original string, records []ModelRecord) (string, error) {
	if len(records) == 0 {
		return original, nil
	}

	closing := strings.LastIndex(original, "}")
	if closing < 0 {
		return "", fmt.Errorf("%w: no closing brace", ErrMalformedReference)
	}

	head := strings.TrimRight(original[:closing], " \t\r\n")
	tail := original[closing+1:]

	entries, err := renderEntries(records)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(original) + len(entries) + 4)
	b.WriteString(head)
	if !strings.HasSuffix(head, "{") {
		b.WriteString(",")
	}
	b.WriteString(entries)
	b.WriteString("\n}")
	b.WriteString(tail)

	updated := b.String()
	if !gjson.Valid(updated) || !gjson.Parse(updated).IsObject() {
		return "", fmt.Errorf("%w: splice of %d entries produced an unparsable document", ErrPatchInvalid, len(records))
	}

	return updated, nil
}

// RenderEntries renders the entries for records as a standalone JSON object,
// formatted the same way AppendEntries writes them.
func RenderEntries(records []ModelRecord) (string, error) {
	if len(records) == 0 {
		return "{}", nil
	}

	entries, err := renderEntries(records)
	if err != nil {
		return "", err
	}

	return "{" + entries + "\n}", nil
}

// renderEntries returns `\n    "key": {...}` fragments joined by commas.
func renderEntries(records []ModelRecord) (string, error) {
	parts := make([]string, 0, len(records))

	for _, r := range records {
		key, err := marshalNoEscape(NamespacedKey(r.Identifier), "")
		if err != nil {
			return "", fmt.Errorf("failed to encode key for %s: %w", r.Identifier, err)
		}

		value, err := marshalNoEscape(ToPricingObject(r), entryIndent)
		if err != nil {
			return "", fmt.Errorf("failed to encode entry for %s: %w", r.Identifier, err)
		}

		parts = append(parts, "\n"+entryIndent+key+": "+value)
	}

	return strings.Join(parts, ","), nil
}

// marshalNoEscape encodes v without HTML escaping. A non-empty prefix turns
// on indentation, nesting one level below the prefix.
func marshalNoEscape(v any, prefix string) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if prefix != "" {
		enc.SetIndent(prefix, entryIndent)
	}

	if err := enc.Encode(v); err != nil {
		return "", err
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
