package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
)

func newMockRepo(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return NewGormRepository(gdb), mock
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"not found", gorm.ErrRecordNotFound, errors.ErrCodeNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, errors.ErrCodeConflict},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errors.ErrCodeConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errors.ErrCodeConflict},
		{"exclusion violation", &pgconn.PgError{Code: "23P01"}, errors.ErrCodeConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, errors.ErrCodeConflict},
		{"other pg error", &pgconn.PgError{Code: "57014"}, errors.ErrCodeDBError},
		{"plain error", stderrors.New("connection reset"), errors.ErrCodeDBError},
		{"already translated", errors.Forbidden("nope"), errors.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "kennel", "k-1")
			assert.True(t, errors.IsCode(err, tt.want), "got %v", err)
		})
	}
	assert.NoError(t, translate(nil, "kennel", ""))
}

func TestGormGetKennelNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "kennels" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetKennel(context.Background(), "k-404")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindOverlappingUsesHalfOpenPredicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE kennel_id = \$1 AND status IN \(\$2,\$3,\$4\) AND deleted_at IS NULL AND .*start_date < \$5 AND end_date > \$6.* AND id <> \$7 ORDER BY start_date`).
		WithArgs("k-1", "PENDING", "CONFIRMED", "CHECKED_IN", end, start, "r-self").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kennel_id", "pet_id", "user_id", "status", "start_date", "end_date"}).
			AddRow("r-1", "k-1", "p-1", "u-1", "CONFIRMED", start.AddDate(0, 0, -1), start.AddDate(0, 0, 1)))
	mock.ExpectQuery(`SELECT \* FROM "pets" WHERE "pets"."id" = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p-1", "Bun"))

	got, err := repo.FindOverlapping(context.Background(), OverlapQuery{
		KennelID:             "k-1",
		Start:                start,
		End:                  end,
		ExcludeReservationID: "r-self",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r-1", got[0].ID)
	require.NotNil(t, got[0].Pet)
	assert.Equal(t, "Bun", got[0].Pet.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormClaimPayment(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	claim := `UPDATE "payments" SET "claimed_until"=.* WHERE \(id = \$\d+ AND status = \$\d+\) AND \(claimed_until IS NULL OR claimed_until < \$\d+\)`

	mock.ExpectExec(claim).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(claim).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ClaimPayment(context.Background(), "pay-1", now, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimPayment(context.Background(), "pay-1", now, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "lease already held")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateKennelStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	update := `UPDATE "kennels" SET "status"=\$1.* WHERE id = \$\d+`

	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateKennelStatus(context.Background(), "k-404", models.KennelStatusMaintenance)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	mock.ExpectExec(update).WillReturnError(&pgconn.PgError{Code: "23503"})
	err = repo.UpdateKennelStatus(context.Background(), "k-1", models.KennelStatusMaintenance)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWithTxRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "kennels" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(tx Repository) error {
		if err := tx.UpdateKennelStatus(context.Background(), "k-1", models.KennelStatusOccupied); err != nil {
			return err
		}
		// transaction lồng nhau dùng lại tx hiện tại
		return tx.WithTx(context.Background(), func(Repository) error {
			return errors.Validation("kennel is under maintenance")
		})
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSumPaidPayments(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE status = \$1 AND paid_at >= \$2 AND paid_at < \$3`).
		WithArgs("PAID", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(250.5))

	total, err := repo.SumPaidPayments(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 250.5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLastAuditLogEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" ORDER BY timestamp DESC LIMIT (\$1|1)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hash"}))

	entry, err := repo.LastAuditLog(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListPetsByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "pets" WHERE owner_id = \$1 ORDER BY name,id`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow("p-1", "u-1", "Bun"))

	pets, err := repo.ListPets(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Bun", pets[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeletePet(t *testing.T) {
	repo, mock := newMockRepo(t)
	del := `DELETE FROM "pets" WHERE id = \$1`

	mock.ExpectExec(del).WithArgs("p-1").WillReturnError(&pgconn.PgError{Code: "23503"})
	err := repo.DeletePet(context.Background(), "p-1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict), "referenced by a reservation")

	mock.ExpectExec(del).WithArgs("p-404").WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.DeletePet(context.Background(), "p-404")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
