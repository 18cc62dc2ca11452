package handler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

const (
	// SessionHeader identifies the console instance whose state a request reads or mutates.
	SessionHeader  = "X-Console-Session"
	defaultSession = "default"
)

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

func sessionFromContext(c *gin.Context) (string, error) {
	session := strings.TrimSpace(c.GetHeader(SessionHeader))
	if session == "" {
		return defaultSession, nil
	}
	if !sessionPattern.MatchString(session) {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid "+SessionHeader+" header")
	}
	return session, nil
}

func listFilterFromQuery(c *gin.Context) models.ScheduleListFilter {
	filter := models.ScheduleListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: c.Query("status"),
		Action: c.Query("action"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.PageSize = size
	}
	return filter
}
