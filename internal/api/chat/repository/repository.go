package chatRepository

import (
	"SunsetBayBot/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepository{q: sqlExecutor, log: r.log},
		Turns:    &turnRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Sessions interface {
		UpsertSession(ctx context.Context, session entity.ChatSession) error
		GetSessionByID(ctx context.Context, id string) (entity.ChatSession, error)
		DeleteSession(ctx context.Context, id string) error
		CleanupIdleSessions(ctx context.Context, cutoff time.Time) error
	}

	Turns interface {
		CreateTurn(ctx context.Context, turn entity.ChatTurn) error
		GetTurnsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.ChatTurn, int, error)
		DeleteTurnsBySessionID(ctx context.Context, sessionID string) error
	}

	Commit   func() error
	Rollback func() error
}

type sessionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type turnRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
