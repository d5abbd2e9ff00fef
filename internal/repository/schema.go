package repository

// sqliteSchema mirrors the Postgres tables for local runs and tests.
// Postgres migrations are managed outside this module.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		first_name TEXT,
		address TEXT,
		postal_code TEXT,
		city TEXT,
		client_type TEXT NOT NULL DEFAULT 'INDIVIDUAL',
		email TEXT,
		phone TEXT,
		external_id INTEGER,
		synced_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_email ON clients (email)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_number TEXT UNIQUE,
		client_id INTEGER REFERENCES clients (id),
		site_address TEXT,
		site_postal_code TEXT,
		site_city TEXT,
		total_area_m2 REAL,
		issue_date DATE,
		expiry_date DATE,
		status TEXT NOT NULL,
		net_total REAL NOT NULL DEFAULT 0,
		tax_10 REAL NOT NULL DEFAULT 0,
		tax_20 REAL NOT NULL DEFAULT 0,
		gross_total REAL NOT NULL DEFAULT 0,
		thermal_sieve BOOLEAN NOT NULL DEFAULT FALSE,
		source_path TEXT,
		source_hash TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS sub_areas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quote_id INTEGER NOT NULL REFERENCES quotes (id),
		name TEXT NOT NULL,
		area_m2 REAL
	)`,
	`CREATE TABLE IF NOT EXISTS line_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quote_id INTEGER NOT NULL REFERENCES quotes (id),
		sub_area_id INTEGER REFERENCES sub_areas (id),
		line_number TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL,
		unit_price_excl_tax REAL NOT NULL,
		tax_rate_percent REAL NOT NULL,
		total_excl_tax REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER REFERENCES clients (id),
		amount REAL NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_on DATE,
		transaction_ref TEXT,
		external_order_id INTEGER UNIQUE
	)`,
}
