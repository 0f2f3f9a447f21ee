package shared

import "context"

// --- Persistence Interfaces ---

// RowStore is the tabular store the reconciler writes daily rows into.
// Rows are 1-based; row 1 is the header.
type RowStore interface {
	// EnsureHeader rewrites the header row and adjusts the column count
	// whenever the existing header differs from titles.
	EnsureHeader(ctx context.Context, titles []string) error

	// KeyColumn returns the first column top to bottom, header included.
	KeyColumn(ctx context.Context) ([]string, error)

	// ReadRow returns the full field range of one row. Missing trailing
	// cells come back as empty strings.
	ReadRow(ctx context.Context, row int) ([]any, error)

	// UpdateRow overwrites one row's full field range in a single write.
	UpdateRow(ctx context.Context, row int, values []any) error

	// AppendRow appends values after the last row and returns the new
	// row's 1-based position.
	AppendRow(ctx context.Context, values []any) (int, error)
}
