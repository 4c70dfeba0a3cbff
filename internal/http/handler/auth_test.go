package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealflow.app/hub/internal/http/handler"
	"dealflow.app/hub/internal/service"
)

var _ = Describe("RequireAuth", func() {
	var (
		router   *gin.Engine
		verifier *mockVerifier
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		verifier = &mockVerifier{}

		router = gin.New()
		router.GET("/protected", handler.RequireAuth(verifier), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	})

	It("accepts a Bearer token", func() {
		verifier.verifyFn = func(_ context.Context, token string) (int64, error) {
			Expect(token).To(Equal("abc"))
			return 1, nil
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer abc")
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("accepts a token query parameter for WebSocket upgrades", func() {
		verifier.verifyFn = func(_ context.Context, token string) (int64, error) {
			Expect(token).To(Equal("abc"))
			return 1, nil
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected?token=abc", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects a missing token", func() {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an invalid token", func() {
		verifier.verifyFn = func(_ context.Context, _ string) (int64, error) {
			return 0, service.ErrUnauthenticated
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
