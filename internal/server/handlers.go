// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/clean"
	"github.com/pdiddy/plagia/internal/pipeline"
	"github.com/pdiddy/plagia/internal/registry"
	"github.com/pdiddy/plagia/internal/report"
	"github.com/pdiddy/plagia/internal/session"
	"github.com/pdiddy/plagia/internal/verify"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analyze(c *gin.Context) {
	ctx := c.Request.Context()
	cfg := s.pipeline.Config()
	if limit := cfg.Server.MaxUploadBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	sess, err := s.loadSession(c)
	if err != nil {
		s.logger.Error("loading session", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	pdf, filename, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody(pipeline.KindInvalidInput,
				fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)))
			return
		}
		c.JSON(http.StatusBadRequest, errorBody(pipeline.KindInvalidInput, err))
		return
	}

	res, runErr := s.pipeline.Run(ctx, pipeline.Submission{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Filename: filename,
		PDF:      pdf,
	}, sess)

	if s.tracker != nil {
		if err := s.tracker.Commit(ctx, sess); err != nil {
			s.logger.Warn("committing session", zap.String("session", sess.ID), zap.Error(err))
		}
	}
	if sess.Limit > 0 {
		c.Header(RemainingHeader, strconv.Itoa(sess.Remaining()))
	}

	if runErr != nil {
		c.JSON(statusFor(runErr), errorBody(pipeline.KindOf(runErr), runErr))
		return
	}

	rep := report.Build(res, report.Options{TopN: cfg.Report.TopN})
	if format(c) == "html" {
		var buf bytes.Buffer
		if err := rep.RenderHTML(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) verify(c *gin.Context) {
	code := verify.Normalize(c.Param("code"))
	ok, err := s.pipeline.Verify(c.Request.Context(), code)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"code": code, "valid": ok})
	case pipeline.KindOf(err) != "":
		c.JSON(statusFor(err), errorBody(pipeline.KindOf(err), err))
	case errors.Is(err, registry.ErrRegistration):
		s.logger.Warn("verification lookup failed", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "registration store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// loadSession resolves the requester's session, issuing a new id when the
// header is absent or unusable. The id is echoed in the response.
func (s *Server) loadSession(c *gin.Context) (*session.Session, error) {
	id := c.GetHeader(SessionHeader)
	if !session.ValidID(id) {
		id = session.NewID()
	}
	c.Header(SessionHeader, id)
	if s.tracker == nil {
		return &session.Session{ID: id}, nil
	}
	return s.tracker.Load(c.Request.Context(), id)
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	return data, fh.Filename, nil
}

func format(c *gin.Context) string {
	if f := c.Query("format"); f != "" {
		return f
	}
	return c.PostForm("format")
}

func statusFor(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindExtraction, pipeline.KindValidation:
		return http.StatusUnprocessableEntity
	case pipeline.KindInvalidInput:
		return http.StatusBadRequest
	case pipeline.KindQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(kind pipeline.Kind, err error) gin.H {
	body := gin.H{"error": err.Error()}
	if kind != "" {
		body["kind"] = string(kind)
	}
	var ve *clean.ValidationError
	if errors.As(err, &ve) {
		body["bound"] = string(ve.Bound)
		body["measured"] = ve.Measured
		body["limit"] = ve.Limit
	}
	return body
}
