package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ExtraClaim is one custom claim name/value pair.
type ExtraClaim struct {
	Name  string
	Value any
}

// Extra is an ordered bag of custom claims. It encodes as a JSON object whose
// keys keep insertion order, and decodes keeping document order. Numbers are
// decoded as json.Number so they re-encode byte for byte.
type Extra []ExtraClaim

// Get returns the value stored under name.
func (e Extra) Get(name string) (any, bool) {
	for _, c := range e {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// With returns a copy of e with name set to value. An existing entry keeps its
// position; a new one is appended.
func (e Extra) With(name string, value any) Extra {
	out := e.clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, ExtraClaim{Name: name, Value: value})
}

func (e Extra) Len() int { return len(e) }

func (e Extra) clone() Extra {
	if len(e) == 0 {
		return nil
	}
	out := make(Extra, len(e))
	copy(out, e)
	return out
}

func (e Extra) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Extra) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("extra claims must be a JSON object")
	}

	var out Extra
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("extra claim name must be a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = out.With(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}
