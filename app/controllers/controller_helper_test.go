package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var offset, limit int
	app.Get("/list", func(c *fiber.Ctx) error {
		offset, limit = parsePagination(c, 50, 100)
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "", 0, 50},
		{"explicit values", "?offset=20&limit=10", 20, 10},
		{"negative offset clamped", "?offset=-5", 0, 50},
		{"limit capped", "?limit=5000", 0, 100},
		{"garbage ignored", "?offset=abc&limit=xyz", 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/list"+tt.query, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()
	var ipv4, ipv6 string
	app.Get("/ip", func(c *fiber.Ctx) error {
		ipv4, ipv6 = GetClientIP(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "2001:db8::1, 198.51.100.2")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "203.0.113.7", ipv4)
	assert.Equal(t, "2001:db8::1", ipv6)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.True(t, isDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKeyErr(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isDuplicateKeyErr(gorm.ErrRecordNotFound))
	assert.False(t, isDuplicateKeyErr(errors.New("duplicate key value violates unique constraint")))
}

func TestNormalizeSkills(t *testing.T) {
	got := normalizeSkills([]string{" Wiring ", "wiring", "", "Panel Installation"})
	assert.Equal(t, []string{"wiring", "panel installation"}, got)
}
