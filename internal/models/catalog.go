package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Category представляет категорию вакансий.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Decimal хранит денежное значение так, как его прислал бэкенд ("100.00" или 100).
// Пустая строка означает null.
type Decimal string

// UnmarshalJSON принимает строку, число и null.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(strings.TrimSpace(s))
		return nil
	}
	*d = Decimal(b)
	return nil
}

// MarshalJSON отдаёт null для пустого значения.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// Float разбирает значение в число.
func (d Decimal) Float() (float64, bool) {
	if d == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String возвращает значение без изменений.
func (d Decimal) String() string {
	return string(d)
}

// Ref ссылка на связанную сущность. В списках бэкенд отдаёт её строкой ("Design"),
// в детальных ответах объектом ({"id": 1, "name": "Design"} или пользователем).
type Ref struct {
	ID   int64
	Name string
}

// UnmarshalJSON принимает строку, объект, число и null.
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = Ref{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.Name)
	case '{':
		var obj struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		r.ID = obj.ID
		switch {
		case obj.Name != "":
			r.Name = obj.Name
		case obj.Username != "":
			r.Name = obj.Username
		default:
			r.Name = strings.TrimSpace(obj.FirstName + " " + obj.LastName)
		}
		return nil
	default:
		id, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	}
}

// MarshalJSON отдаёт имя строкой, как в списочных ответах.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.Name)
}
