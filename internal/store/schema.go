package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS price_cache (
    symbol               TEXT NOT NULL,
    period               TEXT NOT NULL,
    trade_date           TEXT NOT NULL,
    close                REAL NOT NULL,
    fetched_at           TEXT NOT NULL,
    PRIMARY KEY (symbol, period, trade_date)
);

CREATE TABLE IF NOT EXISTS dividend_cache (
    symbol               TEXT PRIMARY KEY,
    yield                REAL,
    fetched_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS actual_contributions (
    month_index          INTEGER PRIMARY KEY,
    amount               REAL NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_cache_fetched ON price_cache(symbol, period, fetched_at);
`
