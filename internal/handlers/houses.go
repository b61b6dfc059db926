package handlers

import (
	"net/http"

	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

type houseRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required" example:"Lakeside"`
	Address string `json:"address" example:"1 Shore Rd"`
}

type roomRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required" example:"Kitchen"`
	Floor int    `json:"floor" example:"1"`
}

// @Summary      Create house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Param        body  body      houseRequest  true  "house"
// @Success      201   {object}  models.House
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/houses [post]
// @Security     BearerAuth
func (h *Handler) createHouse(c *gin.Context) {
	var req houseRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	house, err := h.services.CreateHouse(c.Request.Context(), service.HouseParams{ID: req.ID, Name: req.Name, Address: req.Address})
	if err != nil {
		h.fail(c, err, "failed to create house", "house_create_failed", "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, house)
}

// @Summary      List houses
// @Tags         houses
// @Produce      json
// @Success      200  {array}   models.House
// @Router       /api/v1/houses [get]
// @Security     BearerAuth
func (h *Handler) listHouses(c *gin.Context) {
	houses, err := h.services.ListHouses(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list houses", "house_list_failed")
		return
	}
	c.JSON(http.StatusOK, houses)
}

// @Summary      Get house
// @Tags         houses
// @Produce      json
// @Param        id   path      string  true  "house id"
// @Success      200  {object}  models.House
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/houses/{id} [get]
// @Security     BearerAuth
func (h *Handler) getHouse(c *gin.Context) {
	house, err := h.services.GetHouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load house", "house_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, house)
}

// @Summary      Create room in a house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "house id"
// @Param        body  body      roomRequest  true  "room"
// @Success      201   {object}  models.Room
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/houses/{id}/rooms [post]
// @Security     BearerAuth
func (h *Handler) createRoom(c *gin.Context) {
	var req roomRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	room, err := h.services.CreateRoom(c.Request.Context(), service.RoomParams{
		ID:      req.ID,
		HouseID: c.Param("id"),
		Name:    req.Name,
		Floor:   req.Floor,
	})
	if err != nil {
		h.fail(c, err, "failed to create room", "room_create_failed", "house_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusCreated, room)
}

// @Summary      List rooms of a house
// @Tags         houses
// @Produce      json
// @Param        id   path      string  true  "house id"
// @Success      200  {array}   models.Room
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/houses/{id}/rooms [get]
// @Security     BearerAuth
func (h *Handler) listRooms(c *gin.Context) {
	rooms, err := h.services.ListRooms(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to list rooms", "room_list_failed", "house_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// @Summary      Get room
// @Tags         houses
// @Produce      json
// @Param        id   path      string  true  "room id"
// @Success      200  {object}  models.Room
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/rooms/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRoom(c *gin.Context) {
	room, err := h.services.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load room", "room_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, room)
}
