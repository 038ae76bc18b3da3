package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	number, err := threadParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.reply.Submit(r.Context(), domain.PostCreationData{
		Board:        boardParam(r),
		ThreadNumber: number,
		Name:         body.Name,
		Content:      body.Content,
		ImageURL:     body.ImageURL,
		Sage:         body.Sage,
		Token:        parseToken(body.Token),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	thread, err := threadParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	number, err := parseIntParam(chi.URLParam(r, "post"), "post number")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.reply.Get(r.Context(), boardParam(r), thread, number)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
