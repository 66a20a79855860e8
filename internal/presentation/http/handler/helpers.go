package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// bindJSON decodes the body into req. Failed binding rules come back as
// 422 field errors, anything else as 400. It reports whether to continue.
func bindJSON(c *gin.Context, req interface{}) bool {
	return bindWith(c, req, c.ShouldBindJSON)
}

func bindQuery(c *gin.Context, req interface{}) bool {
	return bindWith(c, req, c.ShouldBindQuery)
}

func bindWith(c *gin.Context, req interface{}, bind func(interface{}) error) bool {
	err := bind(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fieldName(fe),
				Message: ruleMessage(fe),
			})
		}
		response.ValidationError(c, fields)
		return false
	}
	response.BadRequest(c, "Invalid request body")
	return false
}

// fieldName turns a validator namespace such as
// CreatePurchaseRequest.Items[0].Quantity into items[0].quantity.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, part := range parts {
		parts[i] = toSnake(part)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if (prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z' && nextLower) {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}

// parseID reads a UUID path parameter.
func parseID(c *gin.Context, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + resource + " ID")
	}
	return id, nil
}

// optionalUUID parses a query value, ignoring it when empty.
func optionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: field, Message: "must be a UUID"})
	}
	return &id, nil
}

// dayRange parses start_date and end_date as local calendar days. Both
// days are included, so the returned end is midnight after end_date.
func dayRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.ParseInLocation(dateLayout, start, time.Local)
		if err != nil {
			return nil, nil, apperror.NewValidationError(apperror.FieldError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
		from = &t
	}
	if end != "" {
		t, err := time.ParseInLocation(dateLayout, end, time.Local)
		if err != nil {
			return nil, nil, apperror.NewValidationError(apperror.FieldError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, nil
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return pagination.NewParams(page, perPage)
}

func amount(v float64) decimal.Decimal {
	return billing.FromFloat(v)
}

func optionalAmount(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := billing.FromFloat(*v)
	return &d
}
