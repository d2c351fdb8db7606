package apitest

import (
	"bytes"
	"encoding/json"
)

// orderedErrors тело ошибки валидации в стиле Django REST с сохранением порядка полей.
type orderedErrors struct {
	keys   []string
	values map[string][]string
}

func (e *orderedErrors) add(field, message string) {
	if e.values == nil {
		e.values = make(map[string][]string)
	}
	if _, ok := e.values[field]; !ok {
		e.keys = append(e.keys, field)
	}
	e.values[field] = append(e.values[field], message)
}

func (e *orderedErrors) empty() bool {
	return len(e.keys) == 0
}

func (e *orderedErrors) json() []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, _ := json.Marshal(e.values[k])
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
