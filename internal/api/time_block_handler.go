package api

import (
	"net/http"

	"consistency-tracker/internal/model"
	"consistency-tracker/internal/service"
)

type createBlockRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label"`
	Category  string `json:"category"`
}

// blockResponse adds the category color the client paints the block with.
type blockResponse struct {
	model.TimeBlock
	Color string `json:"color"`
}

func newBlockResponse(block model.TimeBlock) blockResponse {
	return blockResponse{TimeBlock: block, Color: block.Color()}
}

type TimeBlockHandler struct {
	blocks *service.TimeBlockService
}

func NewTimeBlockHandler(blocks *service.TimeBlockService) *TimeBlockHandler {
	return &TimeBlockHandler{blocks: blocks}
}

// List handles GET /api/time-blocks?date=
func (h *TimeBlockHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	blocks, err := h.blocks.ListBlocks(r.Context(), user, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, "list time blocks", err)
		return
	}
	out := make([]blockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, newBlockResponse(block))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/time-blocks
func (h *TimeBlockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBlockRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user, _ := UserFrom(r.Context())
	block, err := h.blocks.CreateBlock(r.Context(), user, service.TimeBlockInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Label:     req.Label,
		Category:  req.Category,
	})
	if err != nil {
		writeServiceError(w, "create time block", err)
		return
	}
	writeJSON(w, http.StatusCreated, newBlockResponse(*block))
}

// Toggle handles PATCH /api/time-blocks/{id}/toggle
func (h *TimeBlockHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	block, err := h.blocks.ToggleBlock(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "toggle time block", err)
		return
	}
	writeJSON(w, http.StatusOK, newBlockResponse(*block))
}

// Delete handles DELETE /api/time-blocks/{id}
func (h *TimeBlockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	if err := h.blocks.DeleteBlock(r.Context(), user, r.PathValue("id")); err != nil {
		writeServiceError(w, "delete time block", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Time block deleted"})
}
