package controllers

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/controllers/mocksctrl"
	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/services"
)

const (
	testLogin    = "johndoe"
	testPassword = "secret"
)

type requestFields struct {
	Method  string
	URL     string
	Body    io.Reader
	Auth    bool
	Headers map[string]string
}

type ControllersSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	links  *mocksctrl.MockLinkStore
	users  *mocksctrl.MockUserRegistrar
	auth   *mocksctrl.MockAuthenticator
	ping   *mocksctrl.MockConnectionChecker
	router *gin.Engine
	user   *models.User
}

func (s *ControllersSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.ctrl = gomock.NewController(s.T())
	s.links = mocksctrl.NewMockLinkStore(s.ctrl)
	s.users = mocksctrl.NewMockUserRegistrar(s.ctrl)
	s.auth = mocksctrl.NewMockAuthenticator(s.ctrl)
	s.ping = mocksctrl.NewMockConnectionChecker(s.ctrl)
	s.user = &models.User{ID: uuid.New(), Username: testLogin, Email: gofakeit.Email()}

	s.router = SetupRouter(RouterParams{
		LinkService: s.links,
		UserService: s.users,
		AuthService: s.auth,
		PingService: s.ping,
		Logger:      zap.NewNop(),
	})
}

func TestControllersSuite(t *testing.T) {
	suite.Run(t, new(ControllersSuite))
}

func (s *ControllersSuite) makeRequest(r requestFields) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.Method, r.URL, r.Body)
	if r.Auth {
		creds := base64.StdEncoding.EncodeToString([]byte(testLogin + ":" + testPassword))
		req.Header.Set("Authorization", "Basic "+creds)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ControllersSuite) expectAuth() {
	s.auth.EXPECT().
		Authenticate(gomock.Any(), testLogin, testPassword).
		Return(s.user, nil)
}

func (s *ControllersSuite) newLink() *models.Link {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Link{
		ID:             uuid.New(),
		OriginalURL:    "https://www.example.com",
		ShortURL:       "1a2b3c4d",
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(models.DefaultLinkTTL),
		Owner:          models.OwnedBy(s.user.ID),
	}
}

func (s *ControllersSuite) TestShorten() {
	link := s.newLink()

	s.Run("unauthenticated", func() {
		w := s.makeRequest(requestFields{Method: http.MethodPost, URL: "/shorten?original_url=https://www.example.com"})
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal("Basic", w.Header().Get("WWW-Authenticate"))
		s.JSONEq(`{"detail":"Not authenticated"}`, w.Body.String())
	})

	s.Run("created", func() {
		s.expectAuth()
		s.links.EXPECT().
			CreateOrGet(gomock.Any(), "https://www.example.com", s.user).
			Return(link, nil)

		w := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/shorten?original_url=https://www.example.com",
			Auth:   true,
		})
		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), `"short_url":"1a2b3c4d"`)
		s.Contains(w.Body.String(), `"user_id":"`+s.user.ID.String()+`"`)
	})

	s.Run("invalid url", func() {
		s.expectAuth()
		s.links.EXPECT().
			CreateOrGet(gomock.Any(), "not a url", s.user).
			Return(nil, services.ErrInvalidURL)

		w := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/shorten?original_url=not%20a%20url",
			Auth:   true,
		})
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		s.JSONEq(`{"detail":"Invalid URL"}`, w.Body.String())
	})

	s.Run("capacity exceeded", func() {
		s.expectAuth()
		s.links.EXPECT().
			CreateOrGet(gomock.Any(), gomock.Any(), s.user).
			Return(nil, services.ErrCapacityExceeded)

		w := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/shorten?original_url=https://www.example.com",
			Auth:   true,
		})
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func (s *ControllersSuite) TestRedirect() {
	link := s.newLink()

	s.links.EXPECT().Resolve(gomock.Any(), link.ShortURL).Return(link, nil)
	s.links.EXPECT().Resolve(gomock.Any(), "00000000").Return(nil, services.ErrNotFound)
	s.links.EXPECT().Resolve(gomock.Any(), "deadbeef").Return(nil, services.ErrExpired)

	tests := []struct {
		name       string
		code       string
		wantStatus int
		wantBody   string
	}{
		{name: "valid", code: link.ShortURL, wantStatus: http.StatusMovedPermanently},
		{name: "not found", code: "00000000", wantStatus: http.StatusNotFound, wantBody: `{"detail":"Link not found"}`},
		{name: "expired", code: "deadbeef", wantStatus: http.StatusGone, wantBody: `{"detail":"Link has expired"}`},
		{name: "wrong length", code: "123", wantStatus: http.StatusNotFound, wantBody: `{"detail":"Link not found"}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/" + tt.code})
			s.Equal(tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				s.JSONEq(tt.wantBody, w.Body.String())
			}
			if tt.wantStatus == http.StatusMovedPermanently {
				s.Equal(link.OriginalURL, w.Header().Get("Location"))
			}
		})
	}
}

func (s *ControllersSuite) TestDetails() {
	link := s.newLink()

	s.links.EXPECT().GetDetails(gomock.Any(), link.ShortURL).Return(link, nil).Times(2)
	s.links.EXPECT().GetDetails(gomock.Any(), "00000000").Return(nil, services.ErrNotFound)

	w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/details/" + link.ShortURL})
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"original_url":"https://www.example.com"`)
	s.NotContains(w.Body.String(), "url_digest")

	w = s.makeRequest(requestFields{Method: http.MethodGet, URL: "/details/00000000"})
	s.Equal(http.StatusNotFound, w.Code)

	s.Run("gzip", func() {
		w := s.makeRequest(requestFields{
			Method:  http.MethodGet,
			URL:     "/details/" + link.ShortURL,
			Headers: map[string]string{"Accept-Encoding": "gzip"},
		})
		s.Equal(http.StatusOK, w.Code)
		s.Equal("gzip", w.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(w.Body)
		s.Require().NoError(err)
		body, err := io.ReadAll(zr)
		s.Require().NoError(err)
		s.Contains(string(body), `"short_url":"1a2b3c4d"`)
	})
}

func (s *ControllersSuite) TestDelete() {
	link := s.newLink()

	s.Run("unauthenticated", func() {
		w := s.makeRequest(requestFields{Method: http.MethodDelete, URL: "/" + link.ShortURL})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantBody: `{"1a2b3c4d":"deleted"}`},
		{name: "not found", err: services.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "foreign link", err: services.ErrForbidden, wantStatus: http.StatusForbidden,
			wantBody: `{"detail":"Not enough permissions"}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.expectAuth()
			s.links.EXPECT().Delete(gomock.Any(), link.ShortURL, s.user).Return(tt.err)

			w := s.makeRequest(requestFields{Method: http.MethodDelete, URL: "/" + link.ShortURL, Auth: true})
			s.Equal(tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				s.JSONEq(tt.wantBody, w.Body.String())
			}
		})
	}
}

func (s *ControllersSuite) TestRegister() {
	validBody := `{"username":"johndoe","email":"john@example.com","passwd":"secret","full_name":"John Doe"}`
	wantParams := services.RegisterParams{
		Username: "johndoe",
		Email:    "john@example.com",
		Password: "secret",
		FullName: "John Doe",
	}

	s.Run("created", func() {
		s.users.EXPECT().Register(gomock.Any(), wantParams).Return(s.user, nil)

		w := s.makeRequest(requestFields{Method: http.MethodPost, URL: "/users/add", Body: strings.NewReader(validBody)})
		s.Equal(http.StatusCreated, w.Code)
		s.JSONEq(`{"status":"created","user_id":"`+s.user.ID.String()+`"}`, w.Body.String())
	})

	s.Run("conflict", func() {
		s.users.EXPECT().
			Register(gomock.Any(), wantParams).
			Return(nil, &services.ConflictError{Field: "username", Value: "johndoe"})

		w := s.makeRequest(requestFields{Method: http.MethodPost, URL: "/users/add", Body: strings.NewReader(validBody)})
		s.Equal(http.StatusConflict, w.Code)
		s.JSONEq(`{"detail":"User with username johndoe already exists"}`, w.Body.String())
	})

	s.Run("invalid body", func() {
		for _, body := range []string{
			`{"username":"johndoe"}`,
			`{"username":"johndoe","email":"not-an-email","passwd":"secret"}`,
			`not json`,
		} {
			w := s.makeRequest(requestFields{Method: http.MethodPost, URL: "/users/add", Body: strings.NewReader(body)})
			s.Equal(http.StatusUnprocessableEntity, w.Code, body)
		}
	})

	s.Run("gzipped body", func() {
		s.users.EXPECT().Register(gomock.Any(), wantParams).Return(s.user, nil)

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(validBody))
		s.Require().NoError(err)
		s.Require().NoError(zw.Close())

		w := s.makeRequest(requestFields{
			Method:  http.MethodPost,
			URL:     "/users/add",
			Body:    &buf,
			Headers: map[string]string{"Content-Encoding": "gzip"},
		})
		s.Equal(http.StatusCreated, w.Code)
	})
}

func (s *ControllersSuite) TestMe() {
	s.Run("unauthenticated", func() {
		w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/users/me"})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("inactive user", func() {
		s.auth.EXPECT().
			Authenticate(gomock.Any(), testLogin, testPassword).
			Return(nil, services.ErrInactiveUser)

		w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/users/me", Auth: true})
		s.Equal(http.StatusUnauthorized, w.Code)
		s.JSONEq(`{"detail":"Inactive user"}`, w.Body.String())
	})

	s.Run("ok", func() {
		s.expectAuth()

		w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/users/me", Auth: true})
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"username":"johndoe"`)
		s.NotContains(w.Body.String(), "password")
	})
}

func (s *ControllersSuite) TestHealthAndPing() {
	w := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/health"})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())

	s.ping.EXPECT().CheckConnection(gomock.Any()).Return(nil)
	w = s.makeRequest(requestFields{Method: http.MethodGet, URL: "/ping"})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("pong", w.Body.String())

	s.ping.EXPECT().CheckConnection(gomock.Any()).Return(services.ErrUnknown)
	w = s.makeRequest(requestFields{Method: http.MethodGet, URL: "/ping"})
	s.Equal(http.StatusInternalServerError, w.Code)
}
