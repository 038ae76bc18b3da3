package handler

import (
	"context"
	"net/http"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board := boardParam(r)
	thread, op, err := h.thread.Create(r.Context(), domain.ThreadCreationData{
		Board:   board,
		Subject: body.Subject,
		Op: domain.PostCreationData{
			Board:    board,
			Name:     body.Name,
			Content:  body.Content,
			ImageURL: body.ImageURL,
			Token:    parseToken(body.Token),
		},
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.CreateThreadResponse{Thread: thread, Op: op})
}

// GetThread serves the full thread. after and limit page through posts.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	number, err := threadParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	after, err := optionalIntQuery(r, "after", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	limit, err := optionalIntQuery(r, "limit", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	summary, posts, err := h.thread.Get(r.Context(), boardParam(r), number, domain.PostListOptions{After: after, Limit: int(limit)})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ThreadResponse{Thread: summary, Posts: posts})
}

func (h *Handler) SetPinned(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.thread.SetPinned)
}

func (h *Handler) SetLocked(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.thread.SetLocked)
}

type flagSetter func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, value bool) (domain.ThreadSummary, error)

func (h *Handler) setFlag(w http.ResponseWriter, r *http.Request, set flagSetter) {
	number, err := threadParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.SetFlagRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	summary, err := set(r.Context(), boardParam(r), number, *body.Value)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	number, err := threadParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.thread.Delete(r.Context(), boardParam(r), number); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
