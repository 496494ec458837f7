// Package doctype holds the document type registry: for each supported
// document type, the field set it is expected to carry and the text
// patterns used to locate each field in recognized text. The registry is
// immutable after construction and safe for unlimited concurrent readers.
package doctype

import (
	"fmt"
	"regexp"
	"sort"
)

// Definition describes one document type schema.
type Definition struct {
	Key      string
	Name     string
	Required []string
	Optional []string
	Patterns map[string]*regexp.Regexp
}

// Fields returns the full declared field set, required first.
func (d Definition) Fields() []string {
	out := make([]string, 0, len(d.Required)+len(d.Optional))
	out = append(out, d.Required...)
	out = append(out, d.Optional...)
	return out
}

// declaresField reports whether name appears in the required or optional
// field list.
func (d Definition) declaresField(name string) bool {
	for _, f := range d.Required {
		if f == name {
			return true
		}
	}
	for _, f := range d.Optional {
		if f == name {
			return true
		}
	}
	return false
}

// Registry is the process-wide table of document type definitions.
type Registry struct {
	defs map[string]Definition
	keys []string
}

// NewRegistry builds a registry, enforcing the schema invariant that every
// pattern key is a declared field of its document type.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("document type with empty key")
		}
		if _, dup := r.defs[def.Key]; dup {
			return nil, fmt.Errorf("duplicate document type %q", def.Key)
		}
		for field := range def.Patterns {
			if !def.declaresField(field) {
				return nil, fmt.Errorf("document type %q: pattern for undeclared field %q", def.Key, field)
			}
		}
		r.defs[def.Key] = def
		r.keys = append(r.keys, def.Key)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Lookup returns the definition for key, reporting whether it exists.
func (r *Registry) Lookup(key string) (Definition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns the sorted set of registered document type keys, for
// request validation at the API boundary.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// ExpectedFields returns the authoritative expected-field list used for
// field-detection confidence: the required fields of the type. Unknown
// keys yield nil.
func (r *Registry) ExpectedFields(key string) []string {
	def, ok := r.defs[key]
	if !ok {
		return nil
	}
	out := make([]string, len(def.Required))
	copy(out, def.Required)
	return out
}

// Default returns the built-in document type table.
func Default() *Registry {
	r, err := NewRegistry(builtinDefinitions()...)
	if err != nil {
		// The built-in table is fixed at compile time; failing its own
		// invariant is a programming error.
		panic(err)
	}
	return r
}

func builtinDefinitions() []Definition {
	return []Definition{
		{
			Key:      "id_card",
			Name:     "Identification Card",
			Required: []string{"name", "id", "dateOfBirth"},
			Optional: []string{"address", "issueDate", "expiryDate"},
			Patterns: map[string]*regexp.Regexp{
				"name":        regexp.MustCompile(`(?i)(?:Name|Full Name)[:\s]+([A-Za-z .'-]+)`),
				"id":          regexp.MustCompile(`(?i)ID\s*(?:Number|No\.?)[:\s]+([A-Z0-9-]+)`),
				"dateOfBirth": regexp.MustCompile(`(?i)(?:DOB|Date of Birth)[:\s]+(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
				"address":     regexp.MustCompile(`(?i)Address[:\s]+([\w ,.-]+)`),
				"issueDate":   regexp.MustCompile(`(?i)Issue Date[:\s]+(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
				"expiryDate":  regexp.MustCompile(`(?i)Expiry Date[:\s]+(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
			},
		},
		{
			Key:      "form",
			Name:     "Generic Form",
			Required: []string{"applicantName", "formNumber", "date"},
			Optional: []string{"address", "contactNumber", "signaturePresent"},
			Patterns: map[string]*regexp.Regexp{
				"applicantName":    regexp.MustCompile(`(?i)(?:Applicant Name|Full Name)[:\s]+([A-Za-z .'-]+)`),
				"formNumber":       regexp.MustCompile(`(?i)Form\s*(?:No\.?|Number)[:\s]+([A-Z0-9-]+)`),
				"date":             regexp.MustCompile(`(?im)^Date[:\s]+(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
				"address":          regexp.MustCompile(`(?i)Address[:\s]+([\w ,.-]+)`),
				"contactNumber":    regexp.MustCompile(`(?i)(?:Phone|Contact No\.?)[:\s]+(\+?\d[\d -]{8,})`),
				"signaturePresent": regexp.MustCompile(`(?i)(Signature|Signed)`),
			},
		},
		{
			Key:      "certificate",
			Name:     "Certificate of Achievement",
			Required: []string{"recipientName", "achievement", "issueDate"},
			Optional: []string{"issuingAuthority", "certificateId"},
			Patterns: map[string]*regexp.Regexp{
				"recipientName":    regexp.MustCompile(`(?i)(?:This certifies that|is hereby awarded to)\s+([A-Za-z .'-]+)`),
				"achievement":      regexp.MustCompile(`(?i)(?:for successfully completing|for achievement in)\s+([A-Za-z0-9 ':-]+)`),
				"issueDate":        regexp.MustCompile(`(?i)Date[d]?[:\s]+((?:\d{1,2}(?:st|nd|rd|th)?\s+)?(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})`),
				"issuingAuthority": regexp.MustCompile(`(?i)(?:Issued by|Signed by)[:\s]+([A-Za-z &,.'-]+)`),
				"certificateId":    regexp.MustCompile(`(?i)Certificate\s*(?:ID|No\.?)[:\s]+([A-Z0-9-]+)`),
			},
		},
	}
}
