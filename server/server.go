package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// session owns one task state machine. Steps on a session are serialised.
type session struct {
	ID   string
	Task string

	lock  *sync.Mutex
	env   types.Environment
	steps int
}

// Server exposes the tasks over HTTP so agents written in any language
// can step them
type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	logger *log.Logger

	registry *prometheus.Registry
	metrics  *metrics

	lock     *sync.Mutex
	nextID   int
	sessions map[string]*session
}

func NewServer(ctx context.Context, addr string, logger *log.Logger) *Server {
	s := &Server{
		Addr:     addr,
		ctx:      ctx,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		lock:     new(sync.Mutex),
		sessions: make(map[string]*session),
	}
	s.metrics = newMetrics(s.registry)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/tasks", s.handleTasks)
	r.POST("/envs", s.handleCreate)
	r.GET("/envs/:id", s.handleGet)
	r.DELETE("/envs/:id", s.handleDelete)
	r.POST("/envs/:id/reset", s.handleReset)
	r.POST("/envs/:id/step", s.handleStep)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

// Handler serves the API, e.g. to mount it in a test server
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listening in the background until the context is cancelled
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("server stopped: %s", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
	s.logger.Printf("listening on %s", s.Addr)
}

type taskInfo struct {
	Name     string       `json:"name"`
	ID       string       `json:"id"`
	Defaults tasks.Config `json:"defaults"`
}

func (s *Server) handleTasks(c *gin.Context) {
	out := make([]taskInfo, 0, len(tasks.Names))
	for _, name := range tasks.Names {
		out = append(out, taskInfo{Name: name, ID: tasks.ID(name), Defaults: tasks.DefaultConfig()})
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out})
}

type createRequest struct {
	Task   string       `json:"task"`
	Config tasks.Config `json:"config"`
}

func (s *Server) handleCreate(c *gin.Context) {
	req := createRequest{Config: tasks.DefaultConfig()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	env, err := tasks.New(req.Task, req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.lock.Lock()
	s.nextID += 1
	sess := &session{
		ID:   strconv.Itoa(s.nextID),
		Task: env.Name(),
		lock: new(sync.Mutex),
		env:  env,
	}
	s.sessions[sess.ID] = sess
	s.lock.Unlock()
	s.metrics.sessions.Inc()

	c.JSON(http.StatusCreated, gin.H{"id": sess.ID, "task": sess.Task})
}

func (s *Server) getSession(c *gin.Context) (*session, bool) {
	s.lock.Lock()
	sess, ok := s.sessions[c.Param("id")]
	s.lock.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown environment"})
	}
	return sess, ok
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.getSession(c)
	if !ok {
		return
	}
	sess.lock.Lock()
	defer sess.lock.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"id":    sess.ID,
		"task":  sess.Task,
		"state": sess.env.State().String(),
		"steps": sess.steps,
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	s.lock.Lock()
	_, ok := s.sessions[c.Param("id")]
	delete(s.sessions, c.Param("id"))
	s.lock.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown environment"})
		return
	}
	s.metrics.sessions.Dec()
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

type resetRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handleReset(c *gin.Context) {
	sess, ok := s.getSession(c)
	if !ok {
		return
	}
	req := resetRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}
	}

	sess.lock.Lock()
	obs := sess.env.Reset(req.Seed)
	sess.steps = 0
	sess.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{"observation": obs})
}

// stepRequest carries the action as an id or a name, e.g. 2 or "forward"
type stepRequest struct {
	Action json.RawMessage `json:"action"`
}

func (r stepRequest) action() (grid.Action, error) {
	if len(r.Action) == 0 {
		return 0, errors.New("missing action")
	}
	var name string
	if err := json.Unmarshal(r.Action, &name); err == nil {
		return grid.ParseAction(name)
	}
	var id int
	if err := json.Unmarshal(r.Action, &id); err != nil {
		return 0, fmt.Errorf("invalid action %s", r.Action)
	}
	if a := grid.Action(id); a.Valid() {
		return a, nil
	}
	return 0, fmt.Errorf("unknown action %d", id)
}

func (s *Server) handleStep(c *gin.Context) {
	sess, ok := s.getSession(c)
	if !ok {
		return
	}
	req := stepRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	action, err := req.action()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.lock.Lock()
	res, err := sess.env.Step(action)
	if err == nil {
		sess.steps += 1
	}
	sess.lock.Unlock()

	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	s.metrics.steps.WithLabelValues(sess.Task).Inc()
	if res.Done() {
		outcome := "failure"
		if res.Info.Success {
			outcome = "success"
		}
		s.metrics.episodes.WithLabelValues(sess.Task, outcome).Inc()
	}
	c.JSON(http.StatusOK, res)
}
