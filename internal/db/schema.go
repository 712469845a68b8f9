package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the application needs.
// Safe to run on every startup; all statements use IF NOT EXISTS.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS auth_sessions (
	token_hash TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS forms (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_forms_user_id ON forms(user_id);

-- Each question kind owns its own table and id space. order_index positions
-- a question among all questions of the form, across every kind; -1 marks
-- an index not yet assigned by a reorder.
CREATE TABLE IF NOT EXISTS choice_questions (
	id BIGSERIAL PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	question TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1,
	required BOOLEAN NOT NULL DEFAULT FALSE,
	editable BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_choice_questions_form_id ON choice_questions(form_id);

CREATE TABLE IF NOT EXISTS choice_options (
	id BIGSERIAL PRIMARY KEY,
	choice_id BIGINT NOT NULL REFERENCES choice_questions(id) ON DELETE CASCADE,
	option_text TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1
);

CREATE INDEX IF NOT EXISTS idx_choice_options_choice_id ON choice_options(choice_id);

CREATE TABLE IF NOT EXISTS text_questions (
	id BIGSERIAL PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	question TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1,
	required BOOLEAN NOT NULL DEFAULT FALSE,
	editable BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_text_questions_form_id ON text_questions(form_id);

CREATE TABLE IF NOT EXISTS rating_questions (
	id BIGSERIAL PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	question TEXT NOT NULL DEFAULT '',
	levels INT NOT NULL DEFAULT 5,
	order_index INT NOT NULL DEFAULT -1,
	required BOOLEAN NOT NULL DEFAULT FALSE,
	editable BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_rating_questions_form_id ON rating_questions(form_id);

CREATE TABLE IF NOT EXISTS date_questions (
	id BIGSERIAL PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	question TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1,
	required BOOLEAN NOT NULL DEFAULT FALSE,
	editable BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_date_questions_form_id ON date_questions(form_id);

CREATE TABLE IF NOT EXISTS ranking_questions (
	id BIGSERIAL PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	question TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1,
	required BOOLEAN NOT NULL DEFAULT FALSE,
	editable BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_ranking_questions_form_id ON ranking_questions(form_id);

CREATE TABLE IF NOT EXISTS ranking_options (
	id BIGSERIAL PRIMARY KEY,
	ranking_id BIGINT NOT NULL REFERENCES ranking_questions(id) ON DELETE CASCADE,
	option_text TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT -1
);

CREATE INDEX IF NOT EXISTS idx_ranking_options_ranking_id ON ranking_options(ranking_id);

-- Responses are immutable rows, one table per question kind.
CREATE TABLE IF NOT EXISTS choice_responses (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	choice_id BIGINT NOT NULL REFERENCES choice_questions(id) ON DELETE CASCADE,
	option_id BIGINT NOT NULL REFERENCES choice_options(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_choice_responses_form_id ON choice_responses(form_id);

CREATE TABLE IF NOT EXISTS text_responses (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	text_id BIGINT NOT NULL REFERENCES text_questions(id) ON DELETE CASCADE,
	response TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_text_responses_form_id ON text_responses(form_id);

CREATE TABLE IF NOT EXISTS rating_responses (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	rating_id BIGINT NOT NULL REFERENCES rating_questions(id) ON DELETE CASCADE,
	response INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rating_responses_form_id ON rating_responses(form_id);

CREATE TABLE IF NOT EXISTS date_responses (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	date_id BIGINT NOT NULL REFERENCES date_questions(id) ON DELETE CASCADE,
	response DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_date_responses_form_id ON date_responses(form_id);

CREATE TABLE IF NOT EXISTS ranking_responses (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	ranking_id BIGINT NOT NULL REFERENCES ranking_questions(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ranking_responses_form_id ON ranking_responses(form_id);

CREATE TABLE IF NOT EXISTS ranking_option_responses (
	id BIGSERIAL PRIMARY KEY,
	response_id TEXT NOT NULL REFERENCES ranking_responses(id) ON DELETE CASCADE,
	option_id BIGINT NOT NULL REFERENCES ranking_options(id) ON DELETE CASCADE,
	position INT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ranking_option_responses_response_id ON ranking_option_responses(response_id);
`
