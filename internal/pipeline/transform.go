package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oceanobs/ctd-split/internal/domain"
)

// StationTransformer implements Transformer using the domain attribute
// rewriting rules.
type StationTransformer struct {
	filePrefix string
	logger     *slog.Logger
}

// NewTransformer creates a StationTransformer. filePrefix is the output file
// name prefix; leave it empty for the default.
func NewTransformer(filePrefix string, logger *slog.Logger) *StationTransformer {
	return &StationTransformer{filePrefix: filePrefix, logger: logger}
}

func (t *StationTransformer) Transform(_ context.Context, st *domain.Station) error {
	if err := domain.RewriteGlobalAttributes(st, t.filePrefix); err != nil {
		return fmt.Errorf("rewrite attributes: %w", err)
	}
	t.logger.Debug("attributes rewritten", "station", st.ID)
	return nil
}
