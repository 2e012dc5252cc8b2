package database

import (
	"context"
	"database/sql"
	"time"
)

// schema creates every table the application uses.  Statements are
// idempotent so Migrate can run on every boot when DB_MIGRATE=true.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	email         VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(100) NOT NULL,
	role          VARCHAR(20)  NOT NULL DEFAULT 'paralegal',
	is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
	last_login    DATETIME     NULL,
	created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id    BIGINT UNSIGNED NOT NULL,
	token_hash CHAR(64)        NOT NULL UNIQUE,
	expires_at DATETIME        NOT NULL,
	revoked_at DATETIME        NULL,
	created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_refresh_user (user_id),
	CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS staff (
	id                   VARCHAR(40)  NOT NULL PRIMARY KEY,
	user_id              BIGINT UNSIGNED NULL,
	full_name            VARCHAR(255) NOT NULL,
	email                VARCHAR(255) NOT NULL UNIQUE,
	phone                VARCHAR(40)  NULL,
	position             VARCHAR(100) NOT NULL,
	department           VARCHAR(100) NULL,
	status               VARCHAR(20)  NOT NULL DEFAULT 'Active',
	hourly_rate          DECIMAL(12,2) NOT NULL DEFAULT 0,
	rate_currency        CHAR(3)      NOT NULL DEFAULT 'TZS',
	hire_date            DATE         NULL,
	monthly_target_hours DECIMAL(6,2) NULL,
	created_at           DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at           DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	CONSTRAINT fk_staff_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS clients (
	id                 VARCHAR(40)  NOT NULL PRIMARY KEY,
	name               VARCHAR(255) NOT NULL,
	type               VARCHAR(20)  NOT NULL,
	email              VARCHAR(255) NOT NULL UNIQUE,
	phone              VARCHAR(40)  NULL,
	address            VARCHAR(500) NULL,
	industry           VARCHAR(100) NULL,
	status             VARCHAR(20)  NOT NULL DEFAULT 'Active',
	preferred_currency CHAR(3)      NOT NULL DEFAULT 'TZS',
	created_by         BIGINT UNSIGNED NULL,
	created_at         DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at         DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS retainers (
	id                    VARCHAR(40)   NOT NULL PRIMARY KEY,
	client_id             VARCHAR(40)   NOT NULL,
	name                  VARCHAR(255)  NOT NULL,
	description           TEXT          NULL,
	total_amount          DECIMAL(14,2) NOT NULL,
	currency              CHAR(3)       NOT NULL,
	utilized_amount       DECIMAL(14,2) NOT NULL DEFAULT 0,
	total_hours_allocated DECIMAL(8,2)  NULL,
	hours_utilized        DECIMAL(8,2)  NOT NULL DEFAULT 0,
	start_date            DATE          NOT NULL,
	end_date              DATE          NOT NULL,
	auto_renew            BOOLEAN       NOT NULL DEFAULT FALSE,
	status                VARCHAR(20)   NOT NULL DEFAULT 'Active',
	expiry_alert_sent     BOOLEAN       NOT NULL DEFAULT FALSE,
	created_at            DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at            DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_retainers_client (client_id),
	KEY idx_retainers_status_end (status, end_date),
	CONSTRAINT fk_retainer_client FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS retainer_scopes (
	id               VARCHAR(40)   NOT NULL PRIMARY KEY,
	retainer_id      VARCHAR(40)   NOT NULL,
	name             VARCHAR(255)  NOT NULL,
	description      TEXT          NULL,
	billing_method   VARCHAR(20)   NOT NULL,
	allocated_amount DECIMAL(14,2) NOT NULL,
	utilized_amount  DECIMAL(14,2) NOT NULL DEFAULT 0,
	allocated_hours  DECIMAL(8,2)  NULL,
	utilized_hours   DECIMAL(8,2)  NOT NULL DEFAULT 0,
	hourly_rate      DECIMAL(12,2) NULL,
	start_date       DATE          NULL,
	end_date         DATE          NULL,
	extension_count  INT           NOT NULL DEFAULT 0,
	status           VARCHAR(20)   NOT NULL DEFAULT 'Active',
	created_at       DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_scopes_retainer (retainer_id),
	CONSTRAINT fk_scope_retainer FOREIGN KEY (retainer_id) REFERENCES retainers(id) ON DELETE CASCADE
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS cases (
	id             VARCHAR(40)  NOT NULL PRIMARY KEY,
	case_reference VARCHAR(60)  NOT NULL UNIQUE,
	client_id      VARCHAR(40)  NOT NULL,
	retainer_id    VARCHAR(40)  NULL,
	title          VARCHAR(255) NOT NULL,
	description    TEXT         NULL,
	practice_area  VARCHAR(100) NOT NULL,
	priority       VARCHAR(20)  NOT NULL DEFAULT 'Medium',
	status         VARCHAR(20)  NOT NULL DEFAULT 'Open',
	start_date     DATE         NOT NULL,
	deadline       DATE         NULL,
	closed_date    DATE         NULL,
	created_by     BIGINT UNSIGNED NULL,
	created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_cases_client_status (client_id, status),
	CONSTRAINT fk_case_client FOREIGN KEY (client_id) REFERENCES clients(id),
	CONSTRAINT fk_case_retainer FOREIGN KEY (retainer_id) REFERENCES retainers(id) ON DELETE SET NULL
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS tasks (
	id                   VARCHAR(40)   NOT NULL PRIMARY KEY,
	client_id            VARCHAR(40)   NOT NULL,
	case_id              VARCHAR(40)   NULL,
	retainer_scope_id    VARCHAR(40)   NULL,
	title                VARCHAR(255)  NOT NULL,
	description          TEXT          NULL,
	task_type            VARCHAR(50)   NOT NULL DEFAULT 'General',
	priority             VARCHAR(20)   NOT NULL DEFAULT 'Medium',
	status               VARCHAR(20)   NOT NULL DEFAULT 'Pending',
	due_date             DATE          NOT NULL,
	billable             BOOLEAN       NOT NULL DEFAULT TRUE,
	hourly_rate          DECIMAL(12,2) NULL,
	hourly_rate_currency CHAR(3)       NULL,
	time_spent_minutes   INT           NOT NULL DEFAULT 0,
	billable_amount      DECIMAL(14,2) NOT NULL DEFAULT 0,
	completed_at         DATETIME      NULL,
	created_at           DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at           DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_tasks_case (case_id),
	KEY idx_tasks_scope (retainer_scope_id),
	CONSTRAINT fk_task_client FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
	CONSTRAINT fk_task_case FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE SET NULL,
	CONSTRAINT fk_task_scope FOREIGN KEY (retainer_scope_id) REFERENCES retainer_scopes(id) ON DELETE SET NULL
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS time_entries (
	id               VARCHAR(40) NOT NULL PRIMARY KEY,
	task_id          VARCHAR(40) NOT NULL,
	user_id          BIGINT UNSIGNED NOT NULL,
	start_time       DATETIME    NOT NULL,
	end_time         DATETIME    NULL,
	duration_minutes INT         NULL,
	billable         BOOLEAN     NOT NULL DEFAULT TRUE,
	notes            TEXT        NULL,
	created_at       DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_entries_task (task_id),
	CONSTRAINT fk_entry_task FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
	CONSTRAINT fk_entry_user FOREIGN KEY (user_id) REFERENCES users(id)
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS invoices (
	id             VARCHAR(40)   NOT NULL PRIMARY KEY,
	invoice_number VARCHAR(30)   NOT NULL UNIQUE,
	client_id      VARCHAR(40)   NOT NULL,
	case_id        VARCHAR(40)   NULL,
	amount         DECIMAL(14,2) NOT NULL,
	currency       CHAR(3)       NOT NULL,
	amount_in_base DECIMAL(14,2) NOT NULL,
	status         VARCHAR(20)   NOT NULL DEFAULT 'Draft',
	issue_date     DATE          NOT NULL,
	due_date       DATE          NOT NULL,
	paid_date      DATE          NULL,
	notes          TEXT          NULL,
	created_by     BIGINT UNSIGNED NULL,
	created_at     DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_invoices_client (client_id),
	CONSTRAINT fk_invoice_client FOREIGN KEY (client_id) REFERENCES clients(id),
	CONSTRAINT fk_invoice_case FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE SET NULL
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS exchange_rates (
	id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	from_currency CHAR(3)        NOT NULL,
	to_currency   CHAR(3)        NOT NULL,
	rate          DECIMAL(18,8)  NOT NULL,
	rate_date     DATE           NOT NULL,
	created_at    DATETIME       NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uq_rate_pair_date (from_currency, to_currency, rate_date)
) ENGINE=InnoDB;
`

// Migrate applies the schema.  Safe to call repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, schema)
	return err
}
