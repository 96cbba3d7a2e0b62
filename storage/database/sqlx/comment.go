package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/comment"
)

type commentRepository struct {
	db *sqlx.DB
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(db *sqlx.DB) comment.Repository {
	return &commentRepository{db: db}
}

const commentDetailQuery = `
	SELECT cm.*,
	       st.name AS student_name, st.surname AS student_surname,
	       cl.name AS class_name,
	       t.name AS teacher_name, t.surname AS teacher_surname,
	       l.name AS lesson_name, sub.name AS subject_name
	FROM comment cm
	JOIN student st ON st.id = cm.student_id
	JOIN class cl ON cl.id = st.class_id
	JOIN teacher t ON t.id = cm.teacher_id
	LEFT JOIN lesson l ON l.id = cm.lesson_id
	LEFT JOIN subject sub ON sub.id = l.subject_id`

func (repo *commentRepository) CreateComment(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	if c.ID == "" {
		c.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO comment (id, content, type, teacher_id, student_id, lesson_id, date)
		 VALUES (:id, :content, :type, :teacher_id, :student_id, :lesson_id, :date)`, c)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "creating comment")
	}
	return c, nil
}

func (repo *commentRepository) GetCommentByID(ctx context.Context, id string) (comment.Comment, error) {
	var c comment.Comment
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM comment WHERE id = $1`, id)
	return c, trapNoRowsErr(err, comment.ErrNotFound)
}

func (repo *commentRepository) QueryAll(ctx context.Context) ([]comment.Detail, error) {
	details := make([]comment.Detail, 0)
	err := repo.db.SelectContext(ctx, &details,
		commentDetailQuery+` ORDER BY cm.date DESC, cm.id DESC`)
	return details, errors.Wrap(err, "querying comments")
}

func (repo *commentRepository) QueryByTeacher(ctx context.Context, teacherID string) ([]comment.Detail, error) {
	details := make([]comment.Detail, 0)
	err := repo.db.SelectContext(ctx, &details,
		commentDetailQuery+` WHERE cm.teacher_id = $1 ORDER BY cm.date DESC, cm.id DESC`, teacherID)
	return details, errors.Wrap(err, "querying comments by teacher")
}

func (repo *commentRepository) QueryByStudent(ctx context.Context, studentID string) ([]comment.WithTeacher, error) {
	comments := make([]comment.WithTeacher, 0)
	err := repo.db.SelectContext(ctx, &comments,
		`SELECT cm.*, t.name AS teacher_name, t.surname AS teacher_surname
		 FROM comment cm
		 JOIN teacher t ON t.id = cm.teacher_id
		 WHERE cm.student_id = $1
		 ORDER BY cm.date DESC, cm.id DESC`, studentID)
	return comments, errors.Wrap(err, "querying comments by student")
}

func (repo *commentRepository) UpdateComment(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE comment SET content = :content, type = :type, lesson_id = :lesson_id
		 WHERE id = :id`, c)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "updating comment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return comment.Comment{}, comment.ErrNotFound
	}
	return c, nil
}

func (repo *commentRepository) DeleteCommentByID(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM comment WHERE id = $1`, id)
	return errors.Wrap(err, "deleting comment")
}
