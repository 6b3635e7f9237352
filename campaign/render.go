package campaign

import "strings"

// Record is one contact row keyed by column name. Null cells are absent.
type Record map[string]string

// Email returns the raw value of the email column.
func (r Record) Email() string {
	return r[EmailColumn]
}

// EmailColumn is the column every contact table must carry.
const EmailColumn = "email"

// nullValue is how tabular sources spell a missing cell.
const nullValue = "NaN"

func (r Record) value(name string) string {
	v := r[name]
	if v == nullValue {
		return ""
	}
	return v
}

// Render substitutes {name} for every name in variables, in order, replacing
// all occurrences with the record value or "" when the value is absent,
// empty or NaN. Because substitution runs sequentially, a value that itself contains
// a later variable's placeholder is substituted again. Placeholders whose
// names are not listed are left as they are.
func Render(template string, record Record, variables []string) string {
	result := template
	for _, name := range variables {
		result = strings.ReplaceAll(result, "{"+name+"}", record.value(name))
	}
	return result
}
