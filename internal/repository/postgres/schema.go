package postgres

var schemaTables = []string{"roles", "permissions", "role_permissions", "accounts", "audit_events"}

// Accounts reference their single role by role_id. Roles cannot be deleted
// while an account still holds them.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS roles (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(50)  NOT NULL UNIQUE,
	level       INTEGER      NOT NULL UNIQUE,
	description TEXT         NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS permissions (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(100) NOT NULL UNIQUE,
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS role_permissions (
	role_id       BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	permission_id BIGINT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
	PRIMARY KEY (role_id, permission_id)
);

CREATE TABLE IF NOT EXISTS accounts (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(50)  NOT NULL,
	email         VARCHAR(255) NOT NULL,
	password_hash TEXT         NOT NULL,
	role_id       BIGINT       NOT NULL REFERENCES roles(id) ON DELETE RESTRICT,
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	CONSTRAINT accounts_username_key UNIQUE (username),
	CONSTRAINT accounts_email_key UNIQUE (email)
);

CREATE INDEX IF NOT EXISTS idx_accounts_role_id ON accounts(role_id);

CREATE TABLE IF NOT EXISTS audit_events (
	id            UUID PRIMARY KEY,
	event_type    VARCHAR(100) NOT NULL,
	actor_type    VARCHAR(20)  NOT NULL,
	actor_id      BIGINT,
	resource_type VARCHAR(50)  NOT NULL,
	resource_id   BIGINT,
	action        VARCHAR(50)  NOT NULL,
	status        VARCHAR(20)  NOT NULL,
	ip_address    VARCHAR(64)  NOT NULL DEFAULT '',
	user_agent    TEXT         NOT NULL DEFAULT '',
	request_id    VARCHAR(64)  NOT NULL DEFAULT '',
	metadata      JSONB,
	error_message TEXT         NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_events_resource ON audit_events(resource_type, resource_id);
`
