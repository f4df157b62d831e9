package mockapi

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/logger"
)

// Server is an in-process simulation of the upstream meme backend,
// used when the app runs in mock mode. It serves deterministic feeds,
// scripted generation jobs, and canned auth, so the full pipeline can
// be exercised without network access.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	ln     net.Listener

	mu       sync.Mutex
	public   []domain.MemeSummary
	personal []domain.MemeSummary
	jobs     map[string]*scriptedJob
}

// scriptedJob advances pending -> processing -> completed, one step per
// status request.
type scriptedJob struct {
	id     string
	prompt string
	polls  int
}

// completesAfter is how many status polls a scripted job needs before
// it reports completed.
const completesAfter = 3

// NewServer builds the simulated backend with seeded corpora.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	base := time.Now()
	s := &Server{
		public:   buildCorpus(domain.FeedScopePublic, 95, base),
		personal: buildCorpus(domain.FeedScopeMine, 23, base),
		jobs:     make(map[string]*scriptedJob),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/memes/public", s.listPublic)
	r.GET("/memes/my", s.listPersonal)
	r.GET("/memes/styles", s.styles)
	r.POST("/memes/generate", s.generate)
	r.GET("/memes/:id/status", s.jobStatus)

	r.POST("/auth/login", s.login)
	r.POST("/auth/register", s.register)
	r.POST("/auth/logout", s.logout)
	r.POST("/auth/refresh", s.refresh)

	s.engine = r
	return s
}

// Start listens on a loopback port and serves until Stop.
// Returns the base URL to point the backend client at.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("mockapi: listen failed: %w", err)
	}
	s.ln = ln
	s.http = &http.Server{Handler: s.engine}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("Mock backend serve error: %v", err)
		}
	}()

	url := "http://" + ln.Addr().String()
	logger.Info("Mock backend listening at %s", url)
	return url, nil
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.http == nil {
		return nil
	}
	return s.http.Close()
}

// Handler exposes the engine for httptest-based callers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) listPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "30"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 30
	}

	s.mu.Lock()
	matched := filterByTitle(s.public, c.Query("search"))
	s.mu.Unlock()

	c.JSON(http.StatusOK, pageOf(matched, page, pageSize))
}

func (s *Server) listPersonal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.Lock()
	items := s.personal
	s.mu.Unlock()

	end := offset + limit
	if offset > len(items) {
		offset = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	// The offset endpoint reports total only; the client fills in page
	// and pageSize from the request it made.
	c.JSON(http.StatusOK, gin.H{
		"data":  items[offset:end],
		"total": len(items),
	})
}

func (s *Server) styles(c *gin.Context) {
	c.JSON(http.StatusOK, seedStyles)
}

func (s *Server) generate(c *gin.Context) {
	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	job := &scriptedJob{id: uuid.New().String(), prompt: req.Prompt}

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	c.JSON(http.StatusAccepted, domain.GenerationJob{
		ID:     job.id,
		Status: domain.MemeStatusPending,
	})
}

func (s *Server) jobStatus(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	job.polls++
	polls := job.polls
	prompt := job.prompt
	if polls >= completesAfter {
		// Completed jobs land in the personal feed like the real
		// backend's post-generation write.
		meme := buildMeme(domain.FeedScopeMine, len(s.personal), time.Now())
		meme.ID = id
		meme.Title = prompt
		s.personal = append([]domain.MemeSummary{meme}, s.personal...)
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	switch {
	case polls >= completesAfter:
		c.JSON(http.StatusOK, domain.GenerationJob{
			ID:       id,
			Status:   domain.MemeStatusCompleted,
			ImageURL: fmt.Sprintf("https://images.example.com/generated/%s.jpg", id),
		})
	case polls >= 2:
		c.JSON(http.StatusOK, domain.GenerationJob{ID: id, Status: domain.MemeStatusProcessing})
	default:
		c.JSON(http.StatusOK, domain.GenerationJob{ID: id, Status: domain.MemeStatusPending})
	}
}

func (s *Server) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Password == "wrong" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, domain.AuthResponse{
		User:        domain.User{ID: uuid.New().String(), Username: req.Username},
		AccessToken: "mock-token-" + uuid.New().String(),
	})
}

func (s *Server) register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusCreated, domain.AuthResponse{
		User:        domain.User{ID: uuid.New().String(), Username: req.Username, Email: req.Email},
		AccessToken: "mock-token-" + uuid.New().String(),
	})
}

func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) refresh(c *gin.Context) {
	c.JSON(http.StatusOK, domain.AuthResponse{
		AccessToken: "mock-token-" + uuid.New().String(),
	})
}

// pageOf slices items into a page/pageSize response envelope.
func pageOf(items []domain.MemeSummary, page, pageSize int) domain.PageResult {
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return domain.PageResult{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    len(items),
	}
}
