package handler

import (
	"net/http"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/utils"
)

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.board.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.BoardListResponse{Boards: boards, TotalPosts: domain.TotalPosts(boards)})
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.Create(r.Context(), domain.BoardCreationData{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
		IsNSFW:      body.IsNSFW,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// GetBoard serves one page of a board. page defaults to 1.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	page, err := optionalIntQuery(r, "page", 1)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, result, err := h.thread.List(r.Context(), boardParam(r), int(page))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.BoardThreadsResponse{
		Board:   board,
		Threads: result.Threads,
		Page:    int(page),
		HasMore: result.HasMore,
	})
}

func (h *Handler) GetPopular(w http.ResponseWriter, r *http.Request) {
	threads, err := h.thread.Popular(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PopularThreadsResponse{Threads: threads})
}
