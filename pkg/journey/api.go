package journey

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/grid"
)

const shutdownTimeout = 10 * time.Second

type ImageResponse struct {
	Index       int    `json:"index"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

type ImagineResponse struct {
	RequestID string          `json:"request_id"`
	Prompt    string          `json:"prompt"`
	SourceURL string          `json:"source_url"`
	Cached    bool            `json:"cached"`
	Images    []ImageResponse `json:"images"`
	Locations [][]string      `json:"locations,omitempty"`
	IpfsHash  string          `json:"ipfs_hash,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (j *Journey) generateRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"state": j.State()})
	})

	router.POST("/imagine", func(c *gin.Context) {
		var req art.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: art.Wrap(art.ErrInvalidRequest, "decode request", err).Error(),
				Kind:  art.KindName(art.ErrInvalidRequest),
			})
			return
		}

		generation, err := j.Imagine(c.Request.Context(), req)
		if err != nil {
			slog.Error("failed to imagine", "prompt", req.Prompt, "error", err)
			c.JSON(statusForError(err), ErrorResponse{Error: err.Error(), Kind: art.KindName(err)})
			return
		}

		response, err := newImagineResponse(generation)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: art.KindName(err)})
			return
		}

		c.JSON(http.StatusOK, response)
	})

	return router
}

func newImagineResponse(generation *Generation) (*ImagineResponse, error) {
	result := generation.Result
	response := &ImagineResponse{
		RequestID: generation.RequestID,
		Prompt:    result.Prompt,
		SourceURL: result.SourceURL,
		Cached:    result.Cached,
		Images:    make([]ImageResponse, 0, len(result.Artifacts)),
	}

	for _, artifact := range result.Artifacts {
		data, err := grid.JPEGBytes(artifact.Image)
		if err != nil {
			return nil, err
		}
		response.Images = append(response.Images, ImageResponse{
			Index:       artifact.Index,
			ContentType: "image/jpeg",
			Data:        base64.StdEncoding.EncodeToString(data),
		})
	}

	if generation.Publication != nil {
		response.Locations = generation.Publication.Locations
		response.IpfsHash = generation.Publication.IpfsHash
	}

	return response, nil
}

func statusForError(err error) int {
	switch art.KindOf(err) {
	case art.ErrInvalidRequest:
		return http.StatusBadRequest
	case art.ErrBannedPrompt:
		return http.StatusUnprocessableEntity
	case art.ErrTimeout:
		return http.StatusGatewayTimeout
	case art.ErrAuthentication, art.ErrNavigation, art.ErrNoImageFound, art.ErrUnexpectedStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"clientIp", c.ClientIP(),
		)
	}
}

func (j *Journey) GetRouter() *gin.Engine {
	return j.apiRouter
}

// StartServer listens on the api address and serves until ctx is done. The
// returned channel closes once in-flight requests have drained.
func (j *Journey) StartServer(ctx context.Context) (<-chan struct{}, error) {
	done := make(chan struct{})

	if j.apiIpPort == "" {
		slog.Info("api ip port is empty, skipping server")
		close(done)
		return done, nil
	}

	listener, err := net.Listen("tcp", j.apiIpPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", j.apiIpPort, err)
	}

	slog.Info("starting server", "address", listener.Addr().String())

	server := &http.Server{
		Handler: j.apiRouter,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	go func() {
		defer close(done)

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
			server.Close()
		}
		slog.Info("server stopped")
	}()

	return done, nil
}
