package resourceengine

import (
	"context"
	"fmt"

	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// CVFiles lists the active CV files of a resource visible to caller,
// newest first.
func (e *Engine) CVFiles(ctx context.Context, resourceID int64, caller authz.Caller) ([]models.CVFile, error) {
	if _, err := e.visible(ctx, resourceID, caller); err != nil {
		return nil, err
	}
	if e.cvFiles == nil {
		return []models.CVFile{}, nil
	}
	files, err := e.cvFiles.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list cv files: %w", err)
	}
	return files, nil
}
