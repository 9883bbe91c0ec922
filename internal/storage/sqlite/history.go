package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/log"
)

// HistoryRepo stores turns per chat. The session id is the chat id.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// AppendTurn writes the turn and its metadata in one transaction.
func (h *HistoryRepo) AppendTurn(ctx context.Context, sessionID string, turn core.Turn) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO question_answers (chat_id, question, answer, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, turn.Question, turn.Answer, toMillis(turn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, m := range turn.Metadata {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO answer_metadata (question_answer_id, page_number, file_name) VALUES (?, ?, ?)`,
			id, m.PageNumber, m.SourceFile,
		)
		if err != nil {
			return fmt.Errorf("failed to insert answer metadata: %w", err)
		}
	}

	return tx.Commit()
}

// LoadHistory returns the last limit turns, oldest first. limit <= 0 loads all.
func (h *HistoryRepo) LoadHistory(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT qa.id, qa.question, qa.answer, qa.created_at, m.page_number, m.file_name
		FROM (
			SELECT id, question, answer, created_at FROM question_answers
			WHERE chat_id = ? ORDER BY id DESC LIMIT ?
		) qa
		LEFT JOIN answer_metadata m ON m.question_answer_id = qa.id
		ORDER BY qa.id ASC, m.id ASC`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns := []core.Turn{}
	lastID := int64(-1)
	for rows.Next() {
		var (
			id        int64
			turn      core.Turn
			createdAt int64
			page      sql.NullString
			file      sql.NullString
		)
		if err := rows.Scan(&id, &turn.Question, &turn.Answer, &createdAt, &page, &file); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}

		if id != lastID {
			turn.CreatedAt = fromMillis(createdAt)
			turn.Metadata = []core.AnswerMetadata{}
			turns = append(turns, turn)
			lastID = id
		}

		// LEFT JOIN yields NULLs for turns without metadata.
		if page.Valid || file.Valid {
			last := &turns[len(turns)-1]
			last.Metadata = append(last.Metadata, core.AnswerMetadata{
				PageNumber: page.String,
				SourceFile: file.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded history turns")
	return turns, nil
}
