// README: Request lifecycle and acceptance workflow handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guardian/internal/http/middleware"
	"guardian/internal/modules/acceptance"
	"guardian/internal/modules/request"
	"guardian/internal/types"
)

type RequestHandler struct {
	requests   *request.Service
	acceptance *acceptance.Service
}

func NewRequestHandler(requests *request.Service, acc *acceptance.Service) *RequestHandler {
	return &RequestHandler{requests: requests, acceptance: acc}
}

type requestBody struct {
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
	MeetingTime   string `json:"meeting_time"`
	RequestType   string `json:"request_type"`
	RequestStatus string `json:"request_status"`
}

type requestView struct {
	RequestID     types.ID        `json:"request_id"`
	StartLocation string          `json:"start_location"`
	EndLocation   string          `json:"end_location"`
	MeetingTime   time.Time       `json:"meeting_time"`
	RequestType   string          `json:"request_type"`
	RequestStatus request.Status  `json:"request_status"`
	CreatedAt     time.Time       `json:"created_at"`
	AcceptedUsers []responderView `json:"acceptedUsers,omitempty"`
}

type openRequestView struct {
	requestView
	UserID       types.ID `json:"user_id"`
	Name         string   `json:"name"`
	Surname      string   `json:"surname"`
	ProfileImage []byte   `json:"profile_image,omitempty"`
}

type responderView struct {
	ID            types.ID `json:"id"`
	Name          string   `json:"name"`
	Surname       string   `json:"surname"`
	ProfileImage  []byte   `json:"profile_image,omitempty"`
	Status        string   `json:"status"`
	CreatorStatus string   `json:"creator_status"`
}

func (h *RequestHandler) Create(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	meetingTime, err := parseMeetingTime(req.MeetingTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unparsable meeting_time")
		return
	}
	id, err := h.requests.Create(c.Request.Context(), request.CreateCommand{
		OwnerID:       middleware.CallerID(c),
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		MeetingTime:   meetingTime,
		Type:          req.RequestType,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request created successfully!", "request_id": id})
}

func (h *RequestHandler) ListOpen(c *gin.Context) {
	list, err := h.requests.ListOpenExcluding(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]openRequestView, 0, len(list))
	for _, r := range list {
		out = append(out, openRequestView{
			requestView: requestView{
				RequestID:     r.ID,
				StartLocation: r.StartLocation,
				EndLocation:   r.EndLocation,
				MeetingTime:   r.MeetingTime,
				RequestType:   r.Type,
				RequestStatus: r.Status,
				CreatedAt:     r.CreatedAt,
			},
			UserID:       r.Owner.ID,
			Name:         r.Owner.Name,
			Surname:      r.Owner.Surname,
			ProfileImage: r.Owner.ProfileImage,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) ListOwn(c *gin.Context) {
	caller := middleware.CallerID(c)
	ctx := c.Request.Context()

	list, err := h.requests.ListOwn(ctx, caller)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	responders, err := h.acceptance.ListByOwner(ctx, caller)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]requestView, 0, len(list))
	for _, r := range list {
		view := requestView{
			RequestID:     r.ID,
			StartLocation: r.StartLocation,
			EndLocation:   r.EndLocation,
			MeetingTime:   r.MeetingTime,
			RequestType:   r.Type,
			RequestStatus: r.Status,
			CreatedAt:     r.CreatedAt,
		}
		for _, resp := range responders[r.ID] {
			view.AcceptedUsers = append(view.AcceptedUsers, responderView{
				ID:            resp.UserID,
				Name:          resp.Name,
				Surname:       resp.Surname,
				ProfileImage:  resp.ProfileImage,
				Status:        string(resp.Status),
				CreatorStatus: string(resp.CreatorStatus),
			})
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Update(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	meetingTime, err := parseMeetingTime(req.MeetingTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unparsable meeting_time")
		return
	}
	err = h.requests.Update(c.Request.Context(), request.UpdateCommand{
		RequestID:     types.ID(c.Param("id")),
		OwnerID:       middleware.CallerID(c),
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		MeetingTime:   meetingTime,
		Type:          req.RequestType,
		Status:        request.Status(req.RequestStatus),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request updated successfully!"})
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	err := h.requests.Cancel(c.Request.Context(), request.CancelCommand{
		RequestID: types.ID(c.Param("id")),
		OwnerID:   middleware.CallerID(c),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request canceled successfully!"})
}

func (h *RequestHandler) Reopen(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	meetingTime, err := parseMeetingTime(req.MeetingTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unparsable meeting_time")
		return
	}
	err = h.requests.Reopen(c.Request.Context(), request.ReopenCommand{
		RequestID:     types.ID(c.Param("id")),
		OwnerID:       middleware.CallerID(c),
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		MeetingTime:   meetingTime,
		Type:          req.RequestType,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request reopened successfully!"})
}

func (h *RequestHandler) Delete(c *gin.Context) {
	err := h.requests.Delete(c.Request.Context(), request.DeleteCommand{
		RequestID: types.ID(c.Param("id")),
		OwnerID:   middleware.CallerID(c),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request and its accepted users deleted successfully!"})
}

func (h *RequestHandler) Accept(c *gin.Context) {
	err := h.acceptance.Accept(c.Request.Context(), acceptance.AcceptCommand{
		RequestID: types.ID(c.Param("id")),
		UserID:    middleware.CallerID(c),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request accepted successfully!"})
}

func (h *RequestHandler) Decline(c *gin.Context) {
	err := h.acceptance.Decline(c.Request.Context(), acceptance.DeclineCommand{
		RequestID: types.ID(c.Param("id")),
		UserID:    middleware.CallerID(c),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request declined successfully!"})
}

type respondReq struct {
	UserID types.ID `json:"userId"`
	Action string   `json:"action"`
}

func (h *RequestHandler) Respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.acceptance.Respond(c.Request.Context(), acceptance.RespondCommand{
		RequestID: types.ID(c.Param("id")),
		OwnerID:   middleware.CallerID(c),
		UserID:    req.UserID,
		Action:    req.Action,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response recorded successfully!"})
}
