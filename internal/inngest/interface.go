package inngest

import (
	"context"
	"net/http"

	"github.com/mauv0809/tennis-oracle/internal/syncer"
)

type InngestClient interface {
	Serve() http.Handler
	RequestSync(ctx context.Context, requestedBy string) error
}

// Syncer is the part of the sync engine the workflow drives.
type Syncer interface {
	Sync(ctx context.Context, trigger string) syncer.Result
}
