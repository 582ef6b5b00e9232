package repository

import (
	"context"
	"regexp"
	"testing"

	"devin/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestReplyImageRepository_FindByReply_OrderedByPosition(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyImageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reply_images" WHERE reply_id = $1 ORDER BY position ASC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reply_id", "path", "position"}).
			AddRow(1, 1, "/img/a.png", 0).
			AddRow(2, 1, "/img/b.png", 1))

	images, err := repo.FindByReply(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, images, 2)
	assert.Equal(t, "/img/a.png", images[0].Path)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyImageRepository_SaveAll_EmptyIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyImageRepository(db)

	err := repo.SaveAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyImageRepository_DeleteByReply_IsHardDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyImageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reply_images" WHERE reply_id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.DeleteByReply(context.Background(), 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyImageRepository_SaveAll(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyImageRepository(db)

	images := models.NewReplyImages([]string{"/img/a.png", "/img/b.png"})
	for i := range images {
		images[i].ReplyID = 1
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reply_images"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := repo.SaveAll(context.Background(), images)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
