package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/utils"
)

// Context keys set by the auth middleware
const (
	CashierIDKey   = "cashier_id"
	CashierNameKey = "cashier_name"
	CashierRoleKey = "cashier_role"
)

const dateLayout = "2006-01-02"

// GetCashierID extracts the cashier ID from the Gin context
func GetCashierID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get(CashierIDKey)
	if !exists {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// GetCashierRole extracts the cashier role from the Gin context
func GetCashierRole(c *gin.Context) string {
	role, exists := c.Get(CashierRoleKey)
	if !exists {
		return ""
	}
	s, _ := role.(string)
	return s
}

// cartKey is the cart owned by the authenticated cashier
func cartKey(c *gin.Context) string {
	if id := GetCashierID(c); id != nil {
		return id.String()
	}
	return "register"
}

// paramUUID parses a path parameter, writing a 400 when it is malformed
func paramUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}

// optionalUUID parses a query value that may be empty
func optionalUUID(value, field string) (*uuid.UUID, error) {
	id, err := utils.ParseOptionalUUID(value)
	if err != nil {
		return nil, apperror.NewFieldError(field, "must be a valid UUID")
	}
	return id, nil
}

// parseDateRange turns YYYY-MM-DD bounds into a half-open range; the end day is included
func parseDateRange(start, end string) (repository.DateRange, error) {
	var r repository.DateRange
	if start != "" {
		t, err := time.ParseInLocation(dateLayout, start, time.Local)
		if err != nil {
			return r, apperror.NewFieldError("start_date", "must be formatted as YYYY-MM-DD")
		}
		r.From = &t
	}
	if end != "" {
		t, err := time.ParseInLocation(dateLayout, end, time.Local)
		if err != nil {
			return r, apperror.NewFieldError("end_date", "must be formatted as YYYY-MM-DD")
		}
		t = t.AddDate(0, 0, 1)
		r.To = &t
	}
	return r, nil
}
