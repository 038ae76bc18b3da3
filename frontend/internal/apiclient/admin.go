package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/itchan-dev/chanengine/shared/domain"
)

// Reconcile repairs aggregates of one board, or of every board when board is empty.
func (c *APIClient) Reconcile(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
	var report domain.ReconcileReport
	path := "/v1/admin/reconcile"
	if board != "" {
		path += "?board=" + url.QueryEscape(board)
	}
	err := c.do(ctx, http.MethodPost, path, nil, &report)
	return report, err
}
