package waitlist

const postgresCreateTable = `CREATE TABLE IF NOT EXISTS waitlist_entries (
  id SERIAL PRIMARY KEY,
  twitter_username VARCHAR(255) NOT NULL,
  wallet_address VARCHAR(42) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT unique_twitter UNIQUE(twitter_username),
  CONSTRAINT unique_wallet UNIQUE(wallet_address)
)`

// AUTOINCREMENT keeps SQLite from reusing the ids of the highest rows.
const sqliteCreateTable = `CREATE TABLE IF NOT EXISTS waitlist_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  twitter_username VARCHAR(255) NOT NULL,
  wallet_address VARCHAR(42) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT unique_twitter UNIQUE(twitter_username),
  CONSTRAINT unique_wallet UNIQUE(wallet_address)
)`

const createdAtIndex = `CREATE INDEX IF NOT EXISTS idx_created_at ON waitlist_entries(created_at DESC)`

func schemaStatements(dialect string) []string {
	if dialect == "sqlite" {
		return []string{sqliteCreateTable, createdAtIndex}
	}

	return []string{postgresCreateTable, createdAtIndex}
}
