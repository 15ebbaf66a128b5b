package validation

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

// Violations accumulates field-level failures across the validation steps of
// one submission, in insertion order. The commit decision is made only after
// every step has run, so all failures can be reported at once.
type Violations []Violation

func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

func (v Violations) Empty() bool {
	return len(v) == 0
}

// ByField returns the first message recorded for a field, or "".
func (v Violations) ByField(field string) string {
	for _, violation := range v {
		if violation.Field == field {
			return violation.Message
		}
	}
	return ""
}

// Messages returns all recorded messages in insertion order.
func (v Violations) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, violation := range v {
		messages = append(messages, violation.Message)
	}
	return messages
}
