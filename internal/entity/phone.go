package domain

import (
	"encoding/json"
	"strings"
)

// PhoneKind tags the wire form a phone number arrived in.
type PhoneKind uint8

const (
	PhoneAbsent PhoneKind = iota
	PhonePlain             // bare string: "08012345678"
	PhoneStructured        // object: {"number":"08012345678"}
)

// Phone is a contact number that clients send either as a bare string or as
// a structured {"number": "..."} object. Both forms are accepted; Normalize
// produces the single canonical string used everywhere downstream.
type Phone struct {
	kind   PhoneKind
	number string
}

// PlainPhone wraps a bare-string phone number.
func PlainPhone(number string) Phone {
	if number == "" {
		return Phone{}
	}
	return Phone{kind: PhonePlain, number: number}
}

// StructuredPhone wraps a number that arrived inside a {"number": ...} object.
func StructuredPhone(number string) Phone {
	if number == "" {
		return Phone{}
	}
	return Phone{kind: PhoneStructured, number: number}
}

func (p Phone) Kind() PhoneKind { return p.kind }

// Normalize returns the canonical phone string: the wrapped number for either
// wire form, or "" when no phone was supplied.
func (p Phone) Normalize() string {
	if p.kind == PhoneAbsent {
		return ""
	}
	return strings.TrimSpace(p.number)
}

func (p Phone) String() string { return p.Normalize() }

// UnmarshalJSON accepts both wire forms. Shapes that carry no usable number
// (null, objects without "number", other scalar types) decode to the absent
// phone rather than failing the whole payload.
func (p *Phone) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*p = Phone{}
		return nil
	}

	var plain string
	if err := json.Unmarshal(b, &plain); err == nil {
		*p = PlainPhone(plain)
		return nil
	}

	var structured struct {
		Number string `json:"number"`
	}
	if err := json.Unmarshal(b, &structured); err == nil {
		*p = StructuredPhone(structured.Number)
		return nil
	}

	*p = Phone{}
	return nil
}

// MarshalJSON always emits the canonical string form.
func (p Phone) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Normalize())
}
