package models

// Row is a client account listed by the approval widget.
type Row struct {
	Id      RowId
	Client  string
	Account string
}

// InstanceRow is a client instance listed by the session widget.
type InstanceRow struct {
	Id       RowId
	Client   string
	Instance string
}

// Contact is an approver or requester. Selects show the name and submit the email.
type Contact struct {
	Name  string
	Email string
}

// DisplayName renders "Name (email)" when the email resolved to a known contact.
func (c Contact) DisplayName() string {
	if c.Name == "" {
		return c.Email
	}
	if c.Email == "" {
		return c.Name
	}
	return c.Name + " (" + c.Email + ")"
}
