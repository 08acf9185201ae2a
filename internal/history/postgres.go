package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asemenov/chatground/internal/ai"
)

// PostgresStore persists conversation history across restarts.
type PostgresStore struct {
	db          *pgxpool.Pool
	maxMessages int
}

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, connString string, maxMessages int) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	schema := `
        CREATE TABLE IF NOT EXISTS conversation_messages (
            id BIGSERIAL PRIMARY KEY,
            channel_id TEXT NOT NULL,
            user_id TEXT NOT NULL,
            role TEXT NOT NULL,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_conversation_key
            ON conversation_messages (channel_id, user_id, created_at);
    `
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{db: db, maxMessages: maxMessages}, nil
}

func (s *PostgresStore) Append(ctx context.Context, channelID, userID string, msg ai.Message) error {
	query := `
        INSERT INTO conversation_messages (channel_id, user_id, role, content)
        VALUES ($1, $2, $3, $4);
    `
	if _, err := s.db.Exec(ctx, query, channelID, userID, msg.Role, msg.Content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	// Trim to the retained window so conversations stay bounded.
	trim := `
        DELETE FROM conversation_messages
        WHERE channel_id = $1 AND user_id = $2 AND id NOT IN (
            SELECT id FROM conversation_messages
            WHERE channel_id = $1 AND user_id = $2
            ORDER BY id DESC
            LIMIT $3
        );
    `
	if _, err := s.db.Exec(ctx, trim, channelID, userID, 2*s.maxMessages); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetHistory(ctx context.Context, channelID, userID string) ([]ai.Message, error) {
	query := `
        SELECT role, content FROM conversation_messages
        WHERE channel_id = $1 AND user_id = $2
        ORDER BY id ASC;
    `
	rows, err := s.db.Query(ctx, query, channelID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var messages []ai.Message
	for rows.Next() {
		var msg ai.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *PostgresStore) Clear(ctx context.Context, channelID, userID string) error {
	query := `DELETE FROM conversation_messages WHERE channel_id = $1 AND user_id = $2`
	if _, err := s.db.Exec(ctx, query, channelID, userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *PostgresStore) CleanupStale(ctx context.Context, olderThan time.Duration) (int, error) {
	// A conversation is stale when its newest message is older than the
	// cutoff; remove it whole, not message by message.
	query := `
        DELETE FROM conversation_messages m
        USING (
            SELECT channel_id, user_id, MAX(created_at) AS last_activity
            FROM conversation_messages
            GROUP BY channel_id, user_id
            HAVING MAX(created_at) < $1
        ) stale
        WHERE m.channel_id = stale.channel_id AND m.user_id = stale.user_id;
    `
	tag, err := s.db.Exec(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup stale conversations: %w", err)
	}
	log.Printf("[History] Removed %d stale messages", tag.RowsAffected())
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	query := `
        SELECT COUNT(DISTINCT (channel_id, user_id)), COUNT(*)
        FROM conversation_messages;
    `
	var stats Stats
	if err := s.db.QueryRow(ctx, query).Scan(&stats.Conversations, &stats.Messages); err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
