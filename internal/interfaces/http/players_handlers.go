package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
	"github.com/vibecoding/backoffice/internal/service"
)

const sessionKey = "session"

type playersHandlers struct {
	service *service.PlayersService
	logger  *zap.Logger
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

// authRequired resolves the bearer token into a session and stores it
// on the request context.
func (h *playersHandlers) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		session, ok := h.service.Authenticate(token)
		if !ok {
			respondError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func (h *playersHandlers) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Role != players.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) players.Session {
	value, _ := c.Get(sessionKey)
	session, _ := value.(players.Session)
	return session
}

// canActFor reports whether the session may operate on the named
// player's data.
func canActFor(session players.Session, name string) bool {
	return session.Role == players.RoleAdmin || session.Name == name
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token and the resolved role.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login handles POST /api/login.
func (h *playersHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and password are required")
		return
	}
	session, err := h.service.Login(req.Name, req.Password)
	if err != nil {
		if errors.Is(err, players.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}
	respondOK(c, LoginResponse{
		Token: session.Token,
		Name:  session.Name,
		Role:  session.Role,
	})
}

// Logout handles POST /api/logout.
func (h *playersHandlers) Logout(c *gin.Context) {
	h.service.Logout(bearerToken(c))
	respondOK(c, gin.H{"logged_out": true})
}

// ListPlayers handles GET /api/players.
func (h *playersHandlers) ListPlayers(c *gin.Context) {
	roster, err := h.service.ListPlayers()
	if err != nil {
		h.logger.Error("roster load failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if roster == nil {
		roster = []players.Player{}
	}
	respondOK(c, roster)
}

// CreatePlayerRequest registers one player.
type CreatePlayerRequest struct {
	Number   int     `json:"number" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Position string  `json:"position" binding:"required"`
	Grade    string  `json:"grade"`
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Password string  `json:"password" binding:"required"`
}

// CreatePlayer handles POST /api/players.
func (h *playersHandlers) CreatePlayer(c *gin.Context) {
	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "number, name, position and password are required")
		return
	}
	position, err := players.ParsePosition(req.Position)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	player := players.Player{
		Number:   req.Number,
		Name:     req.Name,
		Position: position,
		Grade:    req.Grade,
		HeightCM: req.HeightCM,
		WeightKG: req.WeightKG,
	}
	if err := h.service.CreatePlayer(player, req.Password); err != nil {
		if errors.Is(err, players.ErrDuplicatePlayer) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"name": req.Name}})
}

// UpdatePlayerRequest carries the editable fields; absent fields keep
// their current value.
type UpdatePlayerRequest struct {
	Name     *string  `json:"name"`
	Number   *int     `json:"number"`
	HeightCM *float64 `json:"height_cm"`
	WeightKG *float64 `json:"weight_kg"`
	Password *string  `json:"password"`
}

// UpdatePlayer handles PUT /api/players/:name.
func (h *playersHandlers) UpdatePlayer(c *gin.Context) {
	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid update payload")
		return
	}
	updated, err := h.service.UpdatePlayer(c.Param("name"), service.PlayerUpdate{
		Name:     req.Name,
		Number:   req.Number,
		HeightCM: req.HeightCM,
		WeightKG: req.WeightKG,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(c, updated)
}

// UploadImage handles POST /api/players/:name/image. The bytes are
// stored as uploaded.
func (h *playersHandlers) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	opened, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded image")
		return
	}
	defer opened.Close()
	data, err := io.ReadAll(opened)
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded image")
		return
	}

	path, err := h.service.SaveImage(c.Param("name"), data)
	if err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("image upload failed", zap.String("player", c.Param("name")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, gin.H{"image_path": path})
}

// PlayerSummary handles GET /api/players/:name/summary. Players may
// only read their own summary.
func (h *playersHandlers) PlayerSummary(c *gin.Context) {
	name := c.Param("name")
	if !canActFor(currentSession(c), name) {
		respondError(c, http.StatusForbidden, "players may only view their own summary")
		return
	}
	summary, err := h.service.Summary(name)
	if err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("summary build failed", zap.String("player", name), zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, summary)
}

// SubmitCondition handles POST /api/conditions. A player submits for
// themselves; the coach may submit on a player's behalf.
func (h *playersHandlers) SubmitCondition(c *gin.Context) {
	var entry players.Condition
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondError(c, http.StatusBadRequest, "invalid condition payload")
		return
	}
	session := currentSession(c)
	if session.Role == players.RolePlayer {
		entry.Player = session.Name
	}
	if entry.Player == "" {
		respondError(c, http.StatusBadRequest, "player is required")
		return
	}
	if err := h.service.SubmitCondition(entry); err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"player": entry.Player, "date": entry.Date}})
}

// DeleteCondition handles DELETE /api/conditions?player=&date=.
func (h *playersHandlers) DeleteCondition(c *gin.Context) {
	player := c.Query("player")
	date := c.Query("date")
	if player == "" || date == "" {
		respondError(c, http.StatusBadRequest, "player and date are required")
		return
	}
	if !canActFor(currentSession(c), player) {
		respondError(c, http.StatusForbidden, "players may only delete their own entries")
		return
	}
	removed, err := h.service.DeleteCondition(player, date)
	if err != nil {
		h.logger.Error("condition delete failed", zap.String("player", player), zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, gin.H{"removed": removed})
}

// PhysicalRequest records one measured test result.
type PhysicalRequest struct {
	Player string  `json:"player" binding:"required"`
	Event  string  `json:"event" binding:"required"`
	Value  float64 `json:"value" binding:"required"`
	Date   string  `json:"date"`
}

// AddPhysical handles POST /api/physicals.
func (h *playersHandlers) AddPhysical(c *gin.Context) {
	var req PhysicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "player, event and value are required")
		return
	}
	event, err := players.ParseTestEvent(req.Event)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	test, err := h.service.AddPhysical(req.Player, event, req.Value, req.Date)
	if err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: test})
}

// DeletePhysical handles DELETE /api/physicals/:id.
func (h *playersHandlers) DeletePhysical(c *gin.Context) {
	found, err := h.service.DeletePhysical(c.Param("id"))
	if err != nil {
		h.logger.Error("physical delete failed", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "physical test not found")
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// TeamStatus handles GET /api/dashboard/status.
func (h *playersHandlers) TeamStatus(c *gin.Context) {
	status, err := h.service.TeamStatusToday()
	if err != nil {
		h.logger.Error("team status build failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, status)
}

// Leaderboards handles GET /api/dashboard/leaderboards?limit=N.
func (h *playersHandlers) Leaderboards(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	boards, err := h.service.Leaderboards(limit)
	if err != nil {
		h.logger.Error("leaderboard build failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, boards)
}

// MissingToday handles GET /api/dashboard/missing.
func (h *playersHandlers) MissingToday(c *gin.Context) {
	missing, err := h.service.MissingToday()
	if err != nil {
		h.logger.Error("missing list build failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if missing == nil {
		missing = []string{}
	}
	respondOK(c, gin.H{"missing": missing})
}
