package jaegerdb

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

type companyStore struct {
	db *DB
}

func (s *companyStore) Get(ctx context.Context, id int64) (jaegermodel.Company, error) {
	c, err := queryOne[jaegermodel.Company](ctx, s.db, "jaegerdb.GetCompany",
		selectCompanies().Where(sq.Eq{"c.id": id}))
	return c, notFoundAs(err, "Company", id)
}

func (s *companyStore) List(ctx context.Context) ([]jaegermodel.Company, error) {
	return s.Search(ctx, "")
}

func (s *companyStore) Search(ctx context.Context, term string) ([]jaegermodel.Company, error) {
	return queryAll[jaegermodel.Company](ctx, s.db, "jaegerdb.SearchCompanies", companySearchQuery(term))
}

// Add returns the company with an application count of zero.
func (s *companyStore) Add(ctx context.Context, c jaegermodel.Company) (jaegermodel.Company, error) {
	return queryOne[jaegermodel.Company](ctx, s.db, "jaegerdb.AddCompany",
		psql.Insert("companies").
			Columns("name", "website", "industry", "location", "notes", "created_at", "updated_at").
			Values(c.Name, c.Website, c.Industry, c.Location, c.Notes, c.CreatedAt, c.UpdatedAt).
			Suffix(returning(companyColumns)+", 0 AS application_count"))
}

func (s *companyStore) Update(ctx context.Context, c jaegermodel.Company) (jaegermodel.Company, error) {
	n, err := exec(ctx, s.db, "jaegerdb.UpdateCompany",
		psql.Update("companies").
			Set("name", c.Name).
			Set("website", c.Website).
			Set("industry", c.Industry).
			Set("location", c.Location).
			Set("notes", c.Notes).
			Set("updated_at", c.UpdatedAt).
			Where(sq.Eq{"id": c.ID}))
	if err != nil {
		return jaegermodel.Company{}, err
	}
	if n == 0 {
		return jaegermodel.Company{}, NotFound("Company", c.ID)
	}
	return s.Get(ctx, c.ID)
}

// Delete detaches applications through the ON DELETE SET NULL foreign key.
func (s *companyStore) Delete(ctx context.Context, c jaegermodel.Company) error {
	n, err := exec(ctx, s.db, "jaegerdb.DeleteCompany", psql.Delete("companies").Where(sq.Eq{"id": c.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("Company", c.ID)
	}
	return nil
}

func (s *companyStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, "jaegerdb.CompanyExists",
		psql.Select("1").From("companies").Where(sq.Eq{"id": id}))
}
