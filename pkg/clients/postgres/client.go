package postgres

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"landing-waitlist/pkg/models"
)

// UniqueViolation is the SQLSTATE raised by the unique index on email
const UniqueViolation = "23505"

// Client defines the interface for writing signups straight to Postgres
type Client interface {
	Insert(ctx context.Context, record *models.SignupRecord) error
	Migrate() error
	Close() error
}

// Signup is the row layout of the waitlist table
type Signup struct {
	ID          int64     `gorm:"primaryKey"`
	Email       string    `gorm:"not null;uniqueIndex:waitlist_signups_email_key"`
	WhatsApp    *string   `gorm:"column:whatsapp"`
	Telegram    *string   `gorm:"column:telegram"`
	Note        *string   `gorm:"column:user_note"`
	Source      string    `gorm:"not null"`
	ClientIP    string    `gorm:"column:client_ip;not null"`
	ClientAgent string    `gorm:"column:client_agent;not null"`
	CreatedAt   time.Time `gorm:"not null;default:now();autoCreateTime:false"`
}

type clientImpl struct {
	db    *gorm.DB
	table string
}

// DSN puts the service key in as the password when the URL carries none
func DSN(storeURL, key string) (string, error) {
	u, err := url.Parse(storeURL)
	if err != nil {
		return "", pkgerrors.Wrap(err, "parse store url")
	}
	if u.User == nil {
		return "", errors.New("store url has no user")
	}
	if _, ok := u.User.Password(); !ok {
		u.User = url.UserPassword(u.User.Username(), key)
	}
	return u.String(), nil
}

// Open connects to Postgres
func Open(dsn, table string) (Client, error) {
	return NewClient(postgres.Open(dsn), table)
}

// NewClient wraps an already configured gorm dialector
func NewClient(dialector gorm.Dialector, table string) (Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open postgres")
	}
	return &clientImpl{db: db, table: table}, nil
}

func (c *clientImpl) Insert(ctx context.Context, record *models.SignupRecord) error {
	row := &Signup{
		Email:       record.Email,
		WhatsApp:    record.WhatsApp,
		Telegram:    record.Telegram,
		Note:        record.Note,
		Source:      record.Source,
		ClientIP:    record.ClientIP,
		ClientAgent: record.ClientAgent,
	}

	err := c.db.WithContext(ctx).Table(c.table).Create(row).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return pkgerrors.Wrap(models.ErrAlreadyRegistered, pgErr.Message)
	}
	return pkgerrors.Wrapf(err, "insert into %s", c.table)
}

// Migrate creates the table and its unique email index
func (c *clientImpl) Migrate() error {
	return c.db.Table(c.table).AutoMigrate(&Signup{})
}

func (c *clientImpl) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
