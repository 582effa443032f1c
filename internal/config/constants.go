package config

// DefaultDatabasePath is where the SQLite database lives unless overridden
// via the DATABASE_PATH environment variable.
const DefaultDatabasePath = "./rosterd.db"
