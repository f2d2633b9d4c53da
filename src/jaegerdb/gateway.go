package jaegerdb

import (
	"context"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// Repository is the data access every entity supports. Get and Delete report
// a missing row as a jaegererr not-found error.
type Repository[T any] interface {
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Add(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, entity T) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type UserRepository interface {
	Repository[jaegermodel.User]
	// GetByEmail matches regardless of casing.
	GetByEmail(ctx context.Context, email string) (jaegermodel.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type CompanyRepository interface {
	Repository[jaegermodel.Company]
	// Search matches term against name, industry and location, ordered by
	// name. A blank term returns every company.
	Search(ctx context.Context, term string) ([]jaegermodel.Company, error)
}

// ApplicationRepository reads come back with their interview rounds attached.
// Update and Delete are scoped to entity.UserID.
type ApplicationRepository interface {
	Repository[jaegermodel.JobApplication]
	ListForOwner(ctx context.Context, ownerID int64, q jaegermodel.ApplicationQuery) (jaegermodel.Page[jaegermodel.JobApplication], error)
	// GetForOwner fails with not-found both when the application does not
	// exist and when it belongs to someone else.
	GetForOwner(ctx context.Context, id, ownerID int64) (jaegermodel.JobApplication, error)
}

// RoundRepository Update and Delete are scoped to entity.JobApplicationID.
type RoundRepository interface {
	Repository[jaegermodel.InterviewRound]
	GetForApplication(ctx context.Context, id, applicationID int64) (jaegermodel.InterviewRound, error)
	ListByApplication(ctx context.Context, applicationID int64) ([]jaegermodel.InterviewRound, error)
}

// Gateway hands out the repositories of one store. Repositories obtained from
// the Gateway passed to an InTx callback all run inside that transaction.
type Gateway interface {
	Users() UserRepository
	Companies() CompanyRepository
	Applications() ApplicationRepository
	Rounds() RoundRepository
	InTx(ctx context.Context, fn func(tx Gateway) error) error
	Ping(ctx context.Context) error
}
