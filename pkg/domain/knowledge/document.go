package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	fieldText      = "text"
	fieldEmbedding = "embedding"
)

// Document is one entry of the knowledge base or vector store. Fields other
// than text and embedding are kept verbatim in Extra so a round trip through
// the builder does not lose them. Keys are written back in the order they
// were read; an embedding added to a record without one goes last.
type Document struct {
	Text      string
	Embedding []float64
	Extra     map[string]json.RawMessage

	// order holds the decoded key order, text and embedding included.
	order []string
}

type ScoredDocument struct {
	Document
	Score float64
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a JSON object")
	}

	*d = Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if !containsKey(d.order, key) {
			d.order = append(d.order, key)
		}

		switch key {
		case fieldText:
			if err := json.Unmarshal(raw, &d.Text); err != nil {
				return fmt.Errorf("invalid text field: %w", err)
			}
		case fieldEmbedding:
			if err := json.Unmarshal(raw, &d.Embedding); err != nil {
				return fmt.Errorf("invalid embedding field: %w", err)
			}
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[key] = raw
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes keys in decoded order. Keys without a recorded position
// follow: extra fields sorted, then text, then the embedding when present.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value []byte) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	written := make(map[string]bool, len(d.order)+2)
	emit := func(key string) error {
		if written[key] {
			return nil
		}
		switch key {
		case fieldText:
			text, err := json.Marshal(d.Text)
			if err != nil {
				return err
			}
			written[key] = true
			return write(key, text)
		case fieldEmbedding:
			if d.Embedding == nil {
				return nil
			}
			emb, err := json.Marshal(d.Embedding)
			if err != nil {
				return err
			}
			written[key] = true
			return write(key, emb)
		default:
			raw, ok := d.Extra[key]
			if !ok {
				return nil
			}
			written[key] = true
			return write(key, raw)
		}
	}

	for _, k := range d.order {
		if err := emit(k); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		if k == fieldText || k == fieldEmbedding || written[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range append(keys, fieldText, fieldEmbedding) {
		if err := emit(k); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
