package repository

import (
	"context"
	"regexp"
	"testing"

	"bizrate/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReplyRepository_GetByReview(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	t.Run("Existing reply", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "review_id", "supervisor_id", "body"}).
			AddRow(1, 5, 9, "Thanks for the feedback")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "review_replies" WHERE review_id = $1`)).
			WithArgs(5, 1).
			WillReturnRows(rows)

		reply, err := repo.GetByReview(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, reply)
		assert.Equal(t, uint(9), reply.SupervisorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No reply yet", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "review_replies" WHERE review_id = $1`)).
			WithArgs(6, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		reply, err := repo.GetByReview(ctx, 6)
		assert.NoError(t, err)
		assert.Nil(t, reply)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplyRepository_GetByReviewIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	t.Run("Batch load", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "review_id", "supervisor_id", "body"}).
			AddRow(1, 5, 9, "Reply to 5").
			AddRow(2, 8, 9, "Reply to 8")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "review_replies" WHERE review_id IN ($1,$2,$3)`)).
			WithArgs(5, 6, 8).
			WillReturnRows(rows)

		replies, err := repo.GetByReviewIDs(ctx, []uint{5, 6, 8})
		require.NoError(t, err)
		assert.Len(t, replies, 2)
		assert.Equal(t, "Reply to 5", replies[5].Body)
		_, hasSix := replies[6]
		assert.False(t, hasSix)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty input skips the query", func(t *testing.T) {
		replies, err := repo.GetByReviewIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, replies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplyRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	reply := &models.ReviewReply{ReviewID: 5, SupervisorID: 9, Body: "We hear you"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "review_replies"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, reply)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "review_replies"`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 42)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
