package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler(c)
	return w
}

func TestLoginBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Binding failures never reach the service.
	h := NewAuthHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"email":"user@example.com"}`},
		{"invalid email", `{"email":"not-an-email","password":"secret123"}`},
		{"malformed json", `{"email":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, h.Login, "/api/v1/auth/login", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing full name", `{"email":"user@example.com","password":"secret123"}`},
		{"password too short", `{"email":"user@example.com","password":"short","full_name":"A User"}`},
		{"invalid email", `{"email":"nope","password":"secret123","full_name":"A User"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, h.Register, "/api/v1/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateInvoiceBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInvoiceHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(`{"client_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("tenantID", "tenant-1")

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
