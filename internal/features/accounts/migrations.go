// Package accounts — migrations.go содержит SQL-миграции хранилища.
// Миграции встроены в код для упрощения деплоя.
package accounts

// Migration001Accounts создаёт таблицу учётных записей.
// username уникален: это ключ для write-through апдейтов игры.
const Migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(64) UNIQUE NOT NULL,
    balance BIGINT NOT NULL DEFAULT 0,
    income_rate BIGINT NOT NULL DEFAULT 1,
    secondary_income_rate BIGINT NOT NULL DEFAULT 0,
    buff_unlocked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_username ON accounts(username);
`
