package notifier

import (
	"context"

	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// Notifier defines a high-level interface for sending notifications about sync runs
// and formatting replies to slash commands.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished sync runs
	SendSyncReport(ctx context.Context, run tennis.SyncRun) error

	// For formatting responses for slash commands
	FormatQueryResponse(result resolver.Result) (any, error)
	FormatNoDataResponse(query string) (any, error)
	FormatErrorResponse(message string) (any, error)
	FormatSyncStatusResponse(status syncer.Status) (any, error)
	FormatSyncStartedResponse(result syncer.Result) (any, error)
}
