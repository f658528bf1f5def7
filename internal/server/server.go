// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package server exposes one merge run over a read-only HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"irmas-audit/internal/export"
	"irmas-audit/internal/jsonfile"
	"irmas-audit/internal/registry"
	"irmas-audit/internal/version"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Snapshot is the state served. It is never modified after construction.
type Snapshot struct {
	Registry *registry.Registry
	Missing  []string
}

// Handler serves a Snapshot.
type Handler struct {
	snapshot Snapshot
	pager    *export.Pager
}

// NewHandler returns a handler over snap.
func NewHandler(snap Snapshot) *Handler {
	if snap.Registry == nil {
		snap.Registry = registry.New()
	}
	if snap.Missing == nil {
		snap.Missing = []string{}
	}
	return &Handler{snapshot: snap, pager: export.NewPager(snap.Registry)}
}

// NewRouter wires the API routes.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	api.GET("/people", h.GetPeople)
	api.GET("/people/:name", h.GetPerson)
	api.GET("/messages", h.GetMessages)
	api.GET("/missing-contacts", h.GetMissingContacts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Full(),
		"people":  h.snapshot.Registry.Len(),
	})
}

// GetPeople returns one page in the same encoding as the exported page files.
// Paging metadata travels in headers.
func (h *Handler) GetPeople(c *gin.Context) {
	n, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	size, err := intQuery(c, "pageSize", export.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be an integer"})
		return
	}

	page, err := h.pager.Page(n, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := jsonfile.Marshal(page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Page", strconv.Itoa(page.Number))
	c.Header("X-Page-Size", strconv.Itoa(page.PageSize))
	c.Header("X-Total-Pages", strconv.Itoa(page.TotalPages))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// GetPerson looks a person up by the exact name the reports used.
func (h *Handler) GetPerson(c *gin.Context) {
	name := c.Param("name")
	rec, ok := h.snapshot.Registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": rec.Name(), "person": rec})
}

func (h *Handler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, h.pager.Messages())
}

func (h *Handler) GetMissingContacts(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot.Missing)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Serve runs the router on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, router http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
