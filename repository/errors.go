package repository

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/o-vuong/doggo-hotel/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
	pgSerialization       = "40001"
)

// translate chuyển lỗi lưu trữ sang taxonomy của ứng dụng
func translate(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound(entity, id)
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Conflict(entity+" already exists", nil)
	}
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Conflict(entity+" is still referenced by other records", nil)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Conflict(entity+" already exists", nil)
		case pgForeignKeyViolation:
			return errors.Conflict(entity+" is still referenced by other records", nil)
		case pgExclusionViolation:
			return errors.Conflict("kennel is already booked for an overlapping period", nil)
		case pgSerialization:
			return errors.Conflict("concurrent update, please retry", nil)
		}
	}
	return errors.Database("storage failure on "+entity, err)
}
