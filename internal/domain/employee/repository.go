package employee

import "context"

//go:generate mockgen -source=repository.go -destination=mock/directory_mock.go -package=mock

// Directory resolves employees and their reporting line.
type Directory interface {
	GetByNIK(ctx context.Context, nik string) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
}
