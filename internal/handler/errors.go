package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SergeiKhy/shop-directory/internal/middleware"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// respondError переводит ошибку сервиса в HTTP-ответ. Детали ошибок хранилища
// остаются в логах, клиент получает общее сообщение.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}

func respondBadBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("Invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Request body must be valid JSON",
	})
}

// pathID разбирает :id из пути; при ошибке ответ уже отправлен
func pathID(c *gin.Context, logger *zap.Logger) (int64, bool) {
	id, err := service.ParseID("id", c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return 0, false
	}
	return id, true
}

// query возвращает значение параметра, принимая любое из имён. Разные значения
// под разными именами (или повторы одного имени) считаются ошибкой ввода.
func query(c *gin.Context, names ...string) (string, error) {
	var value string
	for _, name := range names {
		for _, v := range c.QueryArray(name) {
			v = strings.TrimSpace(v)
			switch {
			case v == "":
			case value == "":
				value = v
			case v != value:
				return "", &service.ValidationError{
					Field:   names[0],
					Message: "conflicting values supplied for " + strings.Join(names, ", "),
				}
			}
		}
	}
	return value, nil
}

// auditAdmin пишет в лог, какой администратор выполнил изменение
func auditAdmin(c *gin.Context, logger *zap.Logger, action string, targetID int64) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return
	}
	logger.Info("Admin action",
		zap.String("action", action),
		zap.Int64("target_id", targetID),
		zap.Int64("admin_id", identity.ID),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
}
