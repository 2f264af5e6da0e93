package repository

import (
	"context"
	"errors"
	"fmt"

	"ganak-service/src/database"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")

	// ErrAttemptsExhausted means a pending reset exists but may not be checked again.
	ErrAttemptsExhausted = errors.New("reset attempts exhausted")
)

// Collection names
const (
	UsersCollection          = "users"
	ChatsCollection          = "chats"
	ReportsCollection        = "reports"
	ClinicsCollection        = "clinics"
	PasswordResetsCollection = "password_resets"
)

// store resolves its collection on every call so a connection that comes up
// after startup is picked up without rebuilding the store.
type store struct {
	conn *database.Connection
	name string
}

func (s store) collection() (*mongo.Collection, error) {
	return s.conn.Collection(s.name)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", database.ErrUnavailable, err)
	default:
		return err
	}
}

// EnsureIndexes creates the indexes every store relies on.
func EnsureIndexes(ctx context.Context, conn *database.Connection) error {
	ensurers := []func(context.Context) error{
		NewUserRepository(conn).EnsureIndexes,
		NewChatRepository(conn).EnsureIndexes,
		NewReportRepository(conn).EnsureIndexes,
		NewClinicRepository(conn).EnsureIndexes,
		NewMongoResetStore(conn).EnsureIndexes,
	}
	var errs []error
	for _, ensure := range ensurers {
		if err := ensure(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
