package booking

import "meeting-scheduler/internal/hubspot"

// fieldTarget classifies a form-field name once, instead of string-matching
// at every mutation site.
type fieldTarget int

const (
	customField fieldTarget = iota
	emailField
	firstNameField
	lastNameField
)

func classifyField(name string) fieldTarget {
	switch name {
	case "email":
		return emailField
	case "firstName":
		return firstNameField
	case "lastName":
		return lastNameField
	default:
		return customField
	}
}

// ChangeFormField routes a value to either a fixed identity field of the
// draft or the custom-field map; one handler serves both kinds.
func (s *Scheduler) ChangeFormField(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch classifyField(name) {
	case emailField:
		s.draft.Email = asString(value)
	case firstNameField:
		s.draft.FirstName = asString(value)
	case lastNameField:
		s.draft.LastName = asString(value)
	default:
		s.draft.FormFields[name] = value
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// CustomFormFields returns the active link's custom field definitions, or
// nil before a detail has loaded.
func (s *Scheduler) CustomFormFields() []hubspot.CustomFormField {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil
	}
	return s.detail.CustomParams.FormFields
}

// seedFormFields fills type-driven defaults for custom fields that have no
// value yet. Caller-supplied values at construction seal the map. Caller
// must hold s.mu.
func (s *Scheduler) seedFormFields(fields []hubspot.CustomFormField) {
	if s.sealedFields {
		return
	}
	for _, field := range fields {
		if _, ok := s.draft.FormFields[field.Name]; ok {
			continue
		}
		s.draft.FormFields[field.Name] = defaultFieldValue(field)
	}
}

func defaultFieldValue(field hubspot.CustomFormField) any {
	switch field.Type {
	case "number":
		return 0
	case "enumeration":
		return false
	default:
		return ""
	}
}

// FieldAttrs is the rendering hint pair for a custom field.
type FieldAttrs struct {
	Element   string `json:"element"`
	InputType string `json:"inputType,omitempty"`
}

// CustomFieldAttrs maps a field's declared fieldType to the element and
// input kind a form should render. Pure and stateless.
func CustomFieldAttrs(field hubspot.CustomFormField) FieldAttrs {
	switch field.FieldType {
	case "phonenumber":
		return FieldAttrs{Element: "input", InputType: "tel"}
	case "booleancheckbox", "checkbox":
		return FieldAttrs{Element: "input", InputType: "checkbox"}
	case "select", "textarea":
		return FieldAttrs{Element: field.FieldType}
	default:
		return FieldAttrs{Element: "input", InputType: field.FieldType}
	}
}
