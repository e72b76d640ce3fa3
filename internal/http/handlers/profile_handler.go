// README: Profile, like, and comment handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guardian/internal/http/middleware"
	"guardian/internal/modules/profile"
	"guardian/internal/types"
)

type ProfileHandler struct {
	profiles *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: svc}
}

type profileView struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	Surname      string   `json:"surname"`
	Email        string   `json:"email"`
	Bio          string   `json:"bio"`
	ProfileImage []byte   `json:"profile_image,omitempty"`
}

func toProfileView(p profile.Public) profileView {
	return profileView{
		ID:           p.ID,
		Name:         p.Name,
		Surname:      p.Surname,
		Email:        p.Email,
		Bio:          p.Bio,
		ProfileImage: p.ProfileImage,
	}
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(p))
}

func (h *ProfileHandler) GetByID(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), types.ID(c.Param("userId")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(p))
}

type updateProfileReq struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Bio     string `json:"bio"`
	Image   []byte `json:"image,omitempty"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.profiles.Update(c.Request.Context(), profile.UpdateCommand{
		UserID:  middleware.CallerID(c),
		Name:    req.Name,
		Surname: req.Surname,
		Bio:     req.Bio,
		Image:   req.Image,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (h *ProfileHandler) Like(c *gin.Context) {
	err := h.profiles.Like(c.Request.Context(), types.ID(c.Param("userId")), middleware.CallerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Like added successfully!"})
}

func (h *ProfileHandler) LikeCount(c *gin.Context) {
	n, err := h.profiles.LikeCount(c.Request.Context(), types.ID(c.Param("userId")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likesCount": n})
}

type commentReq struct {
	Comment string `json:"comment"`
}

func (h *ProfileHandler) Comment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.profiles.Comment(c.Request.Context(), types.ID(c.Param("userId")), middleware.CallerID(c), req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment added successfully!"})
}

type commentView struct {
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"commented_by_name"`
	Surname   string    `json:"commented_by_surname"`
}

func (h *ProfileHandler) Comments(c *gin.Context) {
	list, err := h.profiles.Comments(c.Request.Context(), types.ID(c.Param("userId")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]commentView, 0, len(list))
	for _, cm := range list {
		out = append(out, commentView{
			Comment:   cm.Text,
			CreatedAt: cm.CreatedAt,
			Name:      cm.Author,
			Surname:   cm.Surname,
		})
	}
	c.JSON(http.StatusOK, out)
}
