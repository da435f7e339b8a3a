package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"reuniteme/internal/data/entity"
	"reuniteme/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeTx struct {
	pgx.Tx
	updateTag  string
	insertErr  error
	execSQL    []string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.execSQL = append(tx.execSQL, sql)
	return pgconn.NewCommandTag(tx.updateTag), nil
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{scan: func(dest ...any) error {
		if tx.insertErr != nil {
			return tx.insertErr
		}
		*(dest[0].(*int64)) = 7
		return nil
	}}
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}

type fakeDB struct {
	database.PgxIface
	tx  *fakeTx
	row fakeRow
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return db.tx, nil }

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return db.row }

func TestTranslateWriteErr(t *testing.T) {
	t.Parallel()

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := translateWriteErr(dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), "users_email_key")

	other := errors.New("connection reset")
	assert.Same(t, other, translateWriteErr(other))
	assert.NotErrorIs(t, translateWriteErr(&pgconn.PgError{Code: "23503"}), ErrDuplicateKey)
}

func TestNonNilStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, nonNilStrings(nil))
	assert.Equal(t, []string{"a"}, nonNilStrings([]string{"a"}))
}

func TestSoftDelete_RecordsOneEntry(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{updateTag: "UPDATE 1"}
	repo := NewUserRepository(&fakeDB{tx: tx}, zap.NewNop())

	userID := uuid.New()
	entry := &entity.DeletionRecord{ActorID: userID, Role: entity.RoleUser, DeletedAt: time.Now()}

	deleted, err := repo.SoftDelete(context.Background(), userID, entry)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.True(t, tx.committed)
	assert.Equal(t, int64(7), entry.ID)
	assert.Equal(t, userID, entry.UserID)
}

func TestSoftDelete_AlreadyInactive(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{updateTag: "UPDATE 0"}
	repo := NewUserRepository(&fakeDB{tx: tx}, zap.NewNop())

	deleted, err := repo.SoftDelete(context.Background(), uuid.New(), &entity.DeletionRecord{DeletedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, tx.committed)
}

func TestSoftDelete_RollsBackOnInsertFailure(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{updateTag: "UPDATE 1", insertErr: errors.New("fk violation")}
	repo := NewUserRepository(&fakeDB{tx: tx}, zap.NewNop())

	deleted, err := repo.SoftDelete(context.Background(), uuid.New(), &entity.DeletionRecord{DeletedAt: time.Now()})
	require.Error(t, err)
	assert.False(t, deleted)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestFindByID_NotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}}
	repo := NewUserRepository(db, zap.NewNop())

	user, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)

	admins := NewAdminRepository(db, zap.NewNop())
	admin, err := admins.FindByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.Nil(t, admin)
}

func TestOTPCreate_VoidsPreviousCodes(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{updateTag: "UPDATE 1"}
	repo := NewOTPRepository(&fakeDB{tx: tx}, zap.NewNop())

	err := repo.Create(context.Background(), &entity.OTP{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     uuid.New(),
		Phone:      "+15551234567",
		CodeHash:   "hash",
		OTPType:    entity.OTPTypePhoneVerification,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, tx.execSQL, 2)
	assert.Contains(t, tx.execSQL[0], "UPDATE otps SET is_used = TRUE")
	assert.Contains(t, tx.execSQL[1], "INSERT INTO otps")
	assert.True(t, tx.committed)
}

func TestOTPConsume(t *testing.T) {
	t.Parallel()

	matched := fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*uuid.UUID)) = uuid.New()
		return nil
	}}
	ok, err := NewOTPRepository(&fakeDB{row: matched}, zap.NewNop()).
		Consume(context.Background(), uuid.New(), "+15551234567", "hash", entity.OTPTypePhoneVerification, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	none := fakeRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
	ok, err = NewOTPRepository(&fakeDB{row: none}, zap.NewNop()).
		Consume(context.Background(), uuid.New(), "+15551234567", "hash", entity.OTPTypePhoneVerification, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	broken := fakeRow{scan: func(dest ...any) error { return errors.New("conn closed") }}
	_, err = NewOTPRepository(&fakeDB{row: broken}, zap.NewNop()).
		Consume(context.Background(), uuid.New(), "+15551234567", "hash", entity.OTPTypePhoneVerification, time.Now())
	assert.Error(t, err)
}
