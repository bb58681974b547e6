package directory

import (
	"strings"

	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

// Directory holds the static rows and contacts a widget renders. It is read-only after
// construction and safe to share across invocations.
type Directory struct {
	Rows       []models.Row
	Instances  []models.InstanceRow
	Approvers  []models.Contact
	Requesters []models.Contact
}

// Default is the deploy-time data set.
var Default = &Directory{
	Rows: []models.Row{
		{Id: "1001", Client: "Acme Corp", Account: "jsmith"},
		{Id: "1002", Client: "Globex LLC", Account: "adoe"},
		{Id: "1003", Client: "Initech", Account: "mpeter"},
	},
	Instances: []models.InstanceRow{
		{Id: "1", Client: "TestClient A", Instance: "i-0abcd1111efgh2222"},
		{Id: "2", Client: "TestClient B", Instance: "i-0abcd3333ijkl4444"},
		{Id: "3", Client: "TestClient C", Instance: "i-0abcd5555mnop6666"},
	},
	Approvers: []models.Contact{
		{Name: "Alice Smith", Email: "alice@example.com"},
		{Name: "Bob Johnson", Email: "bob@example.com"},
		{Name: "Carol White", Email: "carol@example.com"},
	},
	Requesters: []models.Contact{
		{Name: "Dave Miller", Email: "dave@example.com"},
		{Name: "Erin Clark", Email: "erin@example.com"},
		{Name: "Frank Lee", Email: "frank@example.com"},
	},
}

func (d *Directory) Row(id models.RowId) (models.Row, bool) {
	for _, r := range d.Rows {
		if r.Id == id {
			return r, true
		}
	}
	return models.Row{}, false
}

func (d *Directory) Instance(id models.RowId) (models.InstanceRow, bool) {
	for _, r := range d.Instances {
		if r.Id == id {
			return r, true
		}
	}
	return models.InstanceRow{}, false
}

// InstanceById resolves an instance row by its EC2 instance id.
func (d *Directory) InstanceById(instanceId string) (models.InstanceRow, bool) {
	for _, r := range d.Instances {
		if r.Instance == instanceId {
			return r, true
		}
	}
	return models.InstanceRow{}, false
}

// Approver resolves an approver by email. Unknown addresses come back with an empty name.
func (d *Directory) Approver(email string) (models.Contact, bool) {
	return lookup(d.Approvers, email)
}

// Requester resolves a requester by email. Unknown addresses come back with an empty name.
func (d *Directory) Requester(email string) (models.Contact, bool) {
	return lookup(d.Requesters, email)
}

func lookup(contacts []models.Contact, email string) (models.Contact, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Contact{}, false
	}
	for _, c := range contacts {
		if strings.EqualFold(c.Email, email) {
			return c, true
		}
	}
	return models.Contact{Email: email}, false
}
