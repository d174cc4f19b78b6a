package contact

// Detail is one line of published contact information.
type Detail struct {
	Label string
	Value string
	Link  string // empty when the value is not linkable
}

// Hours is one row of the business hours table.
type Hours struct {
	Days  string
	Hours string
}

var details = []Detail{
	{Label: "Email", Value: "hello@themeflex.com", Link: "mailto:hello@themeflex.com"},
	{Label: "Phone", Value: "+1 (555) 123-4567", Link: "tel:+15551234567"},
	{Label: "Address", Value: "123 Design Street, Creative City, CC 12345"},
}

var businessHours = []Hours{
	{Days: "Monday - Friday", Hours: "9:00 AM - 6:00 PM"},
	{Days: "Saturday", Hours: "10:00 AM - 4:00 PM"},
	{Days: "Sunday", Hours: "Closed"},
}

// Details returns the published contact information.
func Details() []Detail {
	return append([]Detail(nil), details...)
}

// BusinessHours returns the opening hours table.
func BusinessHours() []Hours {
	return append([]Hours(nil), businessHours...)
}
