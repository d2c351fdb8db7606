package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// upstreamError разбирает тело ошибки бэкенда. Django REST отдаёт {"field": ["msg", ...]},
// иногда {"detail": "..."} или {"error": "..."}; порядок полей сохраняется.
func upstreamError(status int, body []byte) *apperror.AppError {
	fields := parseFieldErrors(body)
	message := http.StatusText(status)
	for _, f := range fields {
		if (f.Field == "detail" || f.Field == "error" || f.Field == "message") && len(f.Messages) > 0 {
			message = f.Messages[0]
			break
		}
	}
	return apperror.FromUpstream(status, message, fields)
}

func parseFieldErrors(body []byte) []apperror.FieldError {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		var v interface{}
		if err := json.Unmarshal(body, &v); err != nil {
			return nil
		}
		if msgs := collectMessages(v); len(msgs) > 0 {
			return []apperror.FieldError{{Messages: msgs}}
		}
		return nil
	}

	var fields []apperror.FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := keyTok.(string)

		var v interface{}
		if err := dec.Decode(&v); err != nil {
			break
		}
		if msgs := collectMessages(v); len(msgs) > 0 {
			fields = append(fields, apperror.FieldError{Field: key, Messages: msgs})
		}
	}
	return fields
}

func collectMessages(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, collectMessages(item)...)
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, collectMessages(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
