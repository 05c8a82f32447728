// Package apitest runs an in-process stand-in for the Fourtogenic API so
// package tests can exercise the real HTTP path. Handlers serve recorded
// fixtures and scripted failures only, there is no business logic here.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Item mirrors the feed item payload.
type Item struct {
	ID        string `json:"id"`
	FileURL   string `json:"fileUrl"`
	Liked     bool   `json:"isLiked"`
	LikeCount int    `json:"likeCount"`
	DaysAgo   int    `json:"daysAgo"`
}

// Album mirrors the album payload.
type Album struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// Server is the fake backend. Fields configure fixtures and scripted
// failures, counters record what the client actually sent.
type Server struct {
	mu  sync.Mutex
	srv *httptest.Server

	// Fixtures.
	Email        string
	Password     string
	UserID       string
	AccessToken  string
	RefreshToken string
	Items        []Item
	Albums       []Album
	PageSize     int

	// Scripted failures. A zero status means the happy path.
	LikeStatus    int
	PageStatus    int
	RefreshStatus int

	// expired makes every authenticated route 401 until a successful
	// refresh.
	expired bool

	// Counters.
	LoginCalls   int
	RefreshCalls int
	PageCalls    int
	LikeCalls    int
	UnlikeCalls  int
	UploadCalls  int
}

// New starts a fake backend with a logged-in-ready fixture account.
func New() *Server {
	s := &Server{
		Email:        "user@example.com",
		Password:     "hunter2",
		UserID:       "user-1",
		AccessToken:  "access-token-1",
		RefreshToken: "refresh-token-1",
		PageSize:     20,
	}

	r := mux.NewRouter()

	r.Path("/auth/login").Methods("POST").HandlerFunc(s.login)
	r.Path("/auth/register").Methods("POST").HandlerFunc(s.register)
	r.Path("/auth/refresh").Methods("POST").HandlerFunc(s.refresh)
	r.Path("/feed/public").Methods("GET").HandlerFunc(s.feedPage)
	r.Path("/likes").Methods("POST").HandlerFunc(s.like)
	r.Path("/likes").Methods("DELETE").HandlerFunc(s.unlike)
	r.Path("/photos").Methods("POST").HandlerFunc(s.upload)
	r.Path("/photos/{id}").Methods("DELETE").HandlerFunc(s.deletePhoto)
	r.Path("/photos/{id}/visibility").Methods("PATCH").HandlerFunc(s.visibility)
	r.Path("/users/me").Methods("GET").HandlerFunc(s.me)
	r.Path("/users/me/photos").Methods("GET").HandlerFunc(s.myPhotos)
	r.Path("/albums").Methods("GET").HandlerFunc(s.listAlbums)
	r.Path("/albums").Methods("POST").HandlerFunc(s.createAlbum)
	r.Path("/albums/{id}").Methods("DELETE").HandlerFunc(s.deleteAlbum)

	s.srv = httptest.NewServer(r)

	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

func (s *Server) Close() {
	s.srv.Close()
}

// ExpireToken makes the current access token invalid until the client
// refreshes.
func (s *Server) ExpireToken() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired = true
}

func (s *Server) authorized(r *http.Request) bool {
	return !s.expired && r.Header.Get("Authorization") == "Bearer "+s.AccessToken
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LoginCalls++

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}

	if body.Email != s.Email || body.Password != s.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":         map[string]string{"id": s.UserID},
		"accessToken":  s.AccessToken,
		"refreshToken": s.RefreshToken,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}

	if body.Email == s.Email {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "account exists"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RefreshCalls++

	if s.RefreshStatus != 0 {
		writeJSON(w, s.RefreshStatus, map[string]string{"message": "refresh rejected"})
		return
	}

	if err := r.ParseForm(); err != nil || r.Form.Get("refreshToken") != s.RefreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
		return
	}

	s.expired = false
	s.AccessToken = "access-token-" + uuid.NewString()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        map[string]string{"id": s.UserID},
		"accessToken": s.AccessToken,
	})
}

func (s *Server) feedPage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PageCalls++

	if s.PageStatus != 0 {
		writeJSON(w, s.PageStatus, nil)
		return
	}

	limit := s.PageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	offset := 0
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad cursor"})
			return
		}
		offset = n
	}

	end := offset + limit
	if end > len(s.Items) {
		end = len(s.Items)
	}

	next := ""
	if end < len(s.Items) {
		next = strconv.Itoa(end)
	}

	items := s.Items[offset:end]
	if items == nil {
		items = []Item{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":      items,
		"nextCursor": next,
	})
}

func (s *Server) like(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LikeCalls++

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	if s.LikeStatus != 0 {
		writeJSON(w, s.LikeStatus, nil)
		return
	}

	var body struct {
		TargetType string `json:"targetType"`
		TargetID   string `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TargetType != "PHOTO" {
		writeJSON(w, http.StatusBadRequest, nil)
		return
	}

	for i := range s.Items {
		if s.Items[i].ID == body.TargetID {
			s.Items[i].Liked = true
			s.Items[i].LikeCount++
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unlike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UnlikeCalls++

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	if s.LikeStatus != 0 {
		writeJSON(w, s.LikeStatus, nil)
		return
	}

	id := r.URL.Query().Get("target_id")
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items[i].Liked = false
			if s.Items[i].LikeCount > 0 {
				s.Items[i].LikeCount--
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UploadCalls++

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "not multipart"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing file"})
		return
	}
	defer file.Close()

	id := uuid.NewString()

	writeJSON(w, http.StatusOK, map[string]string{
		"id":  id,
		"url": fmt.Sprintf("https://cdn.example.com/%s/%s", id, header.Filename),
	})
}

func (s *Server) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"success": "true"})
}

func (s *Server) visibility(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	var body struct {
		Visibility string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"visibility": body.Visibility})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":                s.UserID,
		"email":             s.Email,
		"username":          "fixture",
		"displayName":       "Fixture User",
		"photoCount":        len(s.Items),
		"receivedLikeCount": 0,
	})
}

func (s *Server) myPhotos(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	items := s.Items
	if items == nil {
		items = []Item{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listAlbums(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	albums := s.Albums
	if albums == nil {
		albums = []Album{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":      albums,
		"nextCursor": "",
	})
}

func (s *Server) createAlbum(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, nil)
		return
	}

	album := Album{
		ID:          uuid.NewString(),
		OwnerID:     s.UserID,
		Title:       body.Title,
		Description: body.Description,
		Visibility:  body.Visibility,
	}

	s.Albums = append(s.Albums, album)

	writeJSON(w, http.StatusOK, album)
}

func (s *Server) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}

	id := mux.Vars(r)["id"]

	albums := s.Albums[:0]
	for _, a := range s.Albums {
		if a.ID != id {
			albums = append(albums, a)
		}
	}
	s.Albums = albums

	writeJSON(w, http.StatusOK, map[string]string{"success": "true"})
}
