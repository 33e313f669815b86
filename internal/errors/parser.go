package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code plus a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage and driver errors onto error codes without
// leaking internals to the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ошибка сервера",
		}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (Postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Запись ссылается на несуществующие или связанные данные",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Не заполнено обязательное поле",
		}
	}

	// Connectivity problems
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Хранилище недоступно. Попробуйте ещё раз позже",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Ошибка сервера. Попробуйте ещё раз позже",
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(errStr, "login") || strings.Contains(errStr, "idx_accounts_login") {
		return ErrorInfo{
			Code:    AuthLoginExists,
			Message: "Логин уже используется",
		}
	}
	// one financial/funnel record per (business, month, year)
	if strings.Contains(errStr, "period") || strings.Contains(errStr, "idx_business_period") {
		return ErrorInfo{
			Code:    PeriodExists,
			Message: "Запись за этот период уже существует",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Такая запись уже существует",
	}
}

func getNotFoundMessage(context string) string {
	ctx := strings.ToLower(context)

	switch {
	case strings.Contains(ctx, "business"):
		return "Бизнес не найден"
	case strings.Contains(ctx, "account"), strings.Contains(ctx, "user"):
		return "Пользователь не найден"
	case strings.Contains(ctx, "financial"), strings.Contains(ctx, "funnel"), strings.Contains(ctx, "period"):
		return "Запись за период не найдена"
	case strings.Contains(ctx, "task"):
		return "Задача не найдена"
	case strings.Contains(ctx, "attachment"), strings.Contains(ctx, "document"):
		return "Документ не найден"
	}
	return "Запрошенные данные не найдены"
}

// ParseAndRespond parses err and writes the error response (controller helper)
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
