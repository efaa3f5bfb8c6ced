package feeds

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/livefire2015/ez-rentroll/src/services"
)

// LoadSnapshot reads every feed from source and normalizes the result
func LoadSnapshot(ctx context.Context, source Source, logger *slog.Logger) (*services.Snapshot, error) {
	raw, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feeds: %w", err)
	}
	return NewNormalizer(logger).Normalize(raw), nil
}
