package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.True(t, isUniqueViolation(errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"})))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(errors.New("23505")))
}

func TestQueriesUseNumberedPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	s := FromDB(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET refresh_token_key = $1 WHERE id = $2 AND refresh_token_key = $3`)).
		WithArgs("new", int64(7), "old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := s.Users().SwapRefreshTokenKey(ctx, 7, "old", "new")
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET status = $1 WHERE id IN ($2, $3) RETURNING id`)).
		WithArgs("DEACTIVATED", int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	ids, err := s.Users().SetStatusForIDs(ctx, []int64{1, 2}, domain.StatusDeactivated)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)

	mock.ExpectExec(`INSERT INTO own_security`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	err = s.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: 1, PasswordHash: "h"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}
