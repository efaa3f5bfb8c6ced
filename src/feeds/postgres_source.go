package feeds

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// PostgresSource reads the feed mirror tables, one jsonb document per record
// Every mirror table has the columns (id, company_id, property_id, feed, document). It only ever reads.
type PostgresSource struct {
	db          *sql.DB
	companyID   string
	propertyIDs []string
}

// NewPostgresSource creates a source for one company
// When propertyIDs is non-empty only those properties and their records are loaded.
func NewPostgresSource(db *sql.DB, companyID string, propertyIDs ...string) *PostgresSource {
	return &PostgresSource{
		db:          db,
		companyID:   companyID,
		propertyIDs: propertyIDs,
	}
}

// OpenPostgres opens a lib/pq connection pool and checks it is reachable
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// Load implements Source
func (s *PostgresSource) Load(ctx context.Context) (*RawSnapshot, error) {
	raw := &RawSnapshot{}

	if err := s.loadCompany(ctx, raw); err != nil {
		return nil, err
	}

	var err error
	if raw.Properties, err = loadDocuments[RawProperty](ctx, s.db, raw, s.companyID, "feed_properties", "", s.propertyIDs); err != nil {
		return nil, err
	}
	if raw.Leases, err = loadDocuments[RawLease](ctx, s.db, raw, s.companyID, "feed_leases", "", s.propertyIDs); err != nil {
		return nil, err
	}
	if raw.Tenants, err = loadDocuments[RawTenant](ctx, s.db, raw, s.companyID, "feed_tenants", "", nil); err != nil {
		return nil, err
	}
	if raw.Payments, err = loadDocuments[RawPayment](ctx, s.db, raw, s.companyID, "feed_payments", "payments", s.propertyIDs); err != nil {
		return nil, err
	}
	if raw.LevyPayments, err = loadDocuments[RawPayment](ctx, s.db, raw, s.companyID, "feed_payments", "levy", s.propertyIDs); err != nil {
		return nil, err
	}

	// expenses are company-wide, never filtered by property
	if raw.Expenses, err = loadDocuments[RawExpense](ctx, s.db, raw, s.companyID, "feed_expenses", "", nil); err != nil {
		return nil, err
	}

	return raw, nil
}

func (s *PostgresSource) loadCompany(ctx context.Context, raw *RawSnapshot) error {
	query := `
		SELECT document
		FROM feed_company
		WHERE company_id = $1
	`

	var doc []byte
	err := s.db.QueryRowContext(ctx, query, s.companyID).Scan(&doc)
	if err == sql.ErrNoRows {
		return fmt.Errorf("company config not found: %s", s.companyID)
	}
	if err != nil {
		return fmt.Errorf("failed to load company config: %w", err)
	}
	if err := json.Unmarshal(doc, &raw.Company); err != nil {
		raw.Company = RawCompany{}
		raw.reject("company", s.companyID, err)
	}
	return nil
}

// loadDocuments decodes the document column of table into T
// feed selects the payments feed ("payments" or "levy"); empty matches every row.
// Rows whose document does not decode are recorded on raw and skipped.
func loadDocuments[T any](ctx context.Context, db *sql.DB, raw *RawSnapshot, companyID, table, feed string, propertyIDs []string) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT id, document
		FROM %s
		WHERE company_id = $1
		  AND ($2::text = '' OR feed = $2::text)
		  AND (cardinality($3::text[]) = 0 OR property_id = ANY($3))
		ORDER BY id
	`, pq.QuoteIdentifier(table))

	if propertyIDs == nil {
		propertyIDs = []string{}
	}
	rows, err := db.QueryContext(ctx, query, companyID, feed, pq.Array(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var docs []document
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		docs = append(docs, document{key: id, body: body})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	name := table
	if feed != "" {
		name = table + "/" + feed
	}
	return decodeEach[T](raw, name, docs), nil
}
