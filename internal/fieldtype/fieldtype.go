// Package fieldtype defines the semantic field types the engine understands
// and their validity and normalization rules. The table is fixed at process
// start and safe for concurrent readers.
package fieldtype

import "regexp"

// Type tags a field value with its semantic type.
type Type string

const (
	TypeName          Type = "name"
	TypeID            Type = "id"
	TypeDate          Type = "date"
	TypeAddress       Type = "address"
	TypeContactNumber Type = "contact_number"
	TypeEmail         Type = "email"
	TypeAlphanumeric  Type = "alphanumeric"
	TypeGenericText   Type = "generic_text"
)

// Definition holds the validity rule and normalizer for one semantic type.
// Normalize is pure and total: it never fails, degrading to pass-through on
// irrecoverable input, and is idempotent.
type Definition struct {
	Description string
	Validate    func(string) bool
	Normalize   func(string) string
}

var (
	reName    = regexp.MustCompile(`^[A-Za-z\s.'-]{2,70}$`)
	reID      = regexp.MustCompile(`(?i)^[A-Z0-9-]{5,20}$`)
	reDate    = regexp.MustCompile(`^\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}$|^\d{4}-\d{2}-\d{2}$`)
	reAddress = regexp.MustCompile(`(?i)^[\w\s,.'#-]{10,150}$`)
	rePhone   = regexp.MustCompile(`^\+?[\d\s()-]{7,20}$`)
	reEmail   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	reAlnum   = regexp.MustCompile(`(?i)^[A-Z0-9-]{3,30}$`)
	reText    = regexp.MustCompile(`^.{2,100}$`)
)

var definitions = map[Type]Definition{
	TypeName: {
		Description: "A person's full name.",
		Validate:    reName.MatchString,
		Normalize:   normalizeText,
	},
	TypeID: {
		Description: "An alphanumeric identifier, like a passport or license number.",
		Validate:    reID.MatchString,
		Normalize:   normalizeCode,
	},
	TypeDate: {
		Description: "A calendar date.",
		Validate:    reDate.MatchString,
		Normalize:   normalizeDate,
	},
	TypeAddress: {
		Description: "A full or partial physical street address.",
		Validate:    reAddress.MatchString,
		Normalize:   normalizeAddress,
	},
	TypeContactNumber: {
		Description: "A phone number, potentially with country code and formatting.",
		Validate:    rePhone.MatchString,
		Normalize:   normalizePhone,
	},
	TypeEmail: {
		Description: "An email address.",
		Validate:    reEmail.MatchString,
		Normalize:   normalizeEmail,
	},
	TypeAlphanumeric: {
		Description: "A generic code with letters and numbers, like a form number.",
		Validate:    reAlnum.MatchString,
		Normalize:   normalizeCode,
	},
	TypeGenericText: {
		Description: "Any general text field requiring basic cleaning.",
		Validate:    reText.MatchString,
		Normalize:   normalizeText,
	},
}

// Lookup returns the definition for t. Unknown types fall back to the
// generic text definition, never an error.
func Lookup(t Type) Definition {
	if def, ok := definitions[t]; ok {
		return def
	}
	return definitions[TypeGenericText]
}

// Types returns all registered semantic types.
func Types() []Type {
	out := make([]Type, 0, len(definitions))
	for t := range definitions {
		out = append(out, t)
	}
	return out
}

// NormalizeValue canonicalizes value according to its semantic type.
// Normalization is always attempted; validity is advisory, never blocking.
func NormalizeValue(value string, t Type) string {
	return Lookup(t).Normalize(value)
}

// Valid reports whether value satisfies the type's validity rule. Callers
// use this to flag low confidence, not to reject values.
func Valid(value string, t Type) bool {
	return Lookup(t).Validate(value)
}

// fieldKinds maps well-known document field names to semantic types.
// Unlisted fields default to generic text.
var fieldKinds = map[string]Type{
	"name":             TypeName,
	"applicantName":    TypeName,
	"recipientName":    TypeName,
	"issuingAuthority": TypeName,
	"id":               TypeID,
	"formNumber":       TypeAlphanumeric,
	"certificateId":    TypeAlphanumeric,
	"date":             TypeDate,
	"dateOfBirth":      TypeDate,
	"issueDate":        TypeDate,
	"expiryDate":       TypeDate,
	"address":          TypeAddress,
	"contactNumber":    TypeContactNumber,
	"email":            TypeEmail,
}

// TypeForField resolves a document field name to its semantic type,
// defaulting to generic text when no mapping exists.
func TypeForField(field string) Type {
	if t, ok := fieldKinds[field]; ok {
		return t
	}
	return TypeGenericText
}
