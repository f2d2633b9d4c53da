package jaegermodel

import "time"

// Company is an entry in the shared company directory.
type Company struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Website   *string   `db:"website"`
	Industry  *string   `db:"industry"`
	Location  *string   `db:"location"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// ApplicationCount is computed on read: applications that reference the company.
	ApplicationCount int `db:"application_count"`
}

type CompanyCreate struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Website  *string `json:"website" validate:"omitempty,max=500"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

func (c CompanyCreate) NewCompany(now time.Time) Company {
	return Company{
		Name:      c.Name,
		Website:   c.Website,
		Industry:  c.Industry,
		Location:  c.Location,
		Notes:     c.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompanyPatch changes only the fields that are non-nil.
type CompanyPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Website  *string `json:"website" validate:"omitempty,max=500"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

func (p CompanyPatch) Apply(c *Company, now time.Time) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Website != nil {
		c.Website = p.Website
	}
	if p.Industry != nil {
		c.Industry = p.Industry
	}
	if p.Location != nil {
		c.Location = p.Location
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
	c.UpdatedAt = now
}
