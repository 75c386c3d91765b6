package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type FrontendHandler struct {
	apiURL string
}

func NewFrontendHandler(apiURL string) *FrontendHandler {
	return &FrontendHandler{apiURL: apiURL}
}

func (h *FrontendHandler) Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "E-Commerce Frontend is running",
		"apiUrl":    h.apiURL,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
