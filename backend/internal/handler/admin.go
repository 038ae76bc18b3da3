package handler

import (
	"net/http"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/utils"
)

// Reconcile repairs counters of one board (?board=) or of all boards.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Run(r.Context(), r.URL.Query().Get("board"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ReconcileResponse{ReconcileReport: report})
}
