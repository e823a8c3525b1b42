// Package web is the server-rendered UI shell: it shows the login form or
// the generator page depending on whether a session exists.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mhpenta/nanogen"
	"github.com/mhpenta/nanogen/gallery"
	"github.com/mhpenta/nanogen/session"
	"github.com/mhpenta/nanogen/sl"
)

//go:embed templates/*.html
var templateFS embed.FS

const timeLayout = "Jan 2, 2006 3:04:05 PM"

// Server renders the pages and serves gallery images for the single local user.
type Server struct {
	sessions  *session.Store
	generator *gallery.Generator
	log       *slog.Logger
	engine    *gin.Engine
}

// New wires the routes. The generator is shared by every request: there is
// one user and one gallery per process.
func New(sessions *session.Store, generator *gallery.Generator, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"initial": initial,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		sessions:  sessions,
		generator: generator,
		log:       log.With(sl.Module("web")),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.home)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)
	r.POST("/generate", s.generate)
	r.GET("/images/:id", s.viewImage)
	r.GET("/images/:id/download", s.downloadImage)

	s.engine = r
	return s, nil
}

// Handler returns the http.Handler serving the UI.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type loginView struct {
	Error    string
	Name     string
	Email    string
	PhotoURL string
}

type imageView struct {
	ID       string
	URL      template.URL
	Prompt   string
	Created  string
	FileName string
}

type generatorView struct {
	User    session.User
	Loading bool
	Error   string
	Draft   string
	Images  []imageView
}

func (s *Server) home(c *gin.Context) {
	user, ok := s.sessions.Load(c.Request.Context())
	if !ok {
		// a missing or corrupt record is a logged-out state; nothing of the
		// previous session may carry over to the next login
		s.generator.Reset()
		c.HTML(http.StatusOK, "login.html", loginView{})
		return
	}

	st := s.generator.Snapshot()
	view := generatorView{
		User:    user,
		Loading: st.InFlight(),
		Error:   st.Error,
		Draft:   st.Draft,
		Images:  make([]imageView, 0, len(st.Images)),
	}
	// gallery URLs are data URIs built by nanogen.Client, so they are
	// marked safe for the src attribute
	for _, img := range st.Images {
		mimeType, _, _ := strings.Cut(strings.TrimPrefix(img.URL, "data:"), ";")
		view.Images = append(view.Images, imageView{
			ID:       img.ID,
			URL:      template.URL(img.URL),
			Prompt:   img.Prompt,
			Created:  time.UnixMilli(img.Timestamp).Format(timeLayout),
			FileName: nanogen.DownloadFileName(img.ID, mimeType),
		})
	}

	c.HTML(http.StatusOK, "generator.html", view)
}

func (s *Server) login(c *gin.Context) {
	view := loginView{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		PhotoURL: strings.TrimSpace(c.PostForm("photoUrl")),
	}
	if view.Name == "" {
		view.Error = "Please enter your name."
		c.HTML(http.StatusBadRequest, "login.html", view)
		return
	}

	id := strings.TrimSpace(c.PostForm("id"))
	if id == "" {
		id = uuid.NewString()
	}

	s.sessions.Save(c.Request.Context(), session.User{
		ID:       id,
		Name:     view.Name,
		Email:    view.Email,
		PhotoURL: view.PhotoURL,
	})
	s.log.Info("user signed in", slog.String("user_id", id))

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.Clear(c.Request.Context())
	s.generator.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) generate(c *gin.Context) {
	if _, ok := s.sessions.Load(c.Request.Context()); !ok {
		s.generator.Reset()
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// The page polls while the request is out; a started request runs to
	// completion even if the browser goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	status := s.generator.Start(ctx, c.PostForm("prompt"))
	s.log.Debug("generate submitted", slog.String("status", string(status)))

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) viewImage(c *gin.Context) {
	mimeType, data, ok := s.imageBytes(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}

func (s *Server) downloadImage(c *gin.Context) {
	mimeType, data, ok := s.imageBytes(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nanogen.DownloadFileName(c.Param("id"), mimeType)))
	c.Data(http.StatusOK, mimeType, data)
}

// imageBytes resolves :id to the decoded image, writing the error response
// itself when it cannot.
func (s *Server) imageBytes(c *gin.Context) (string, []byte, bool) {
	if _, ok := s.sessions.Load(c.Request.Context()); !ok {
		c.Status(http.StatusNotFound)
		return "", nil, false
	}

	img, ok := s.generator.Image(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return "", nil, false
	}

	mimeType, data, err := nanogen.DecodeDataURI(img.URL)
	if err != nil {
		s.log.Error("gallery image is not a data URI", slog.String("id", img.ID), sl.Err(err))
		c.Status(http.StatusInternalServerError)
		return "", nil, false
	}
	return mimeType, data, true
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
