package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/jonathan/manuscript-editor/internal/rendering"
	"github.com/jonathan/manuscript-editor/internal/types"
	"github.com/jonathan/manuscript-editor/internal/wizard"
)

// maxBodyBytes bounds request bodies. A JSON-escaped character takes at most
// 12 bytes (a \uXXXX surrogate pair), so any draft within MaxDraftLength fits.
const maxBodyBytes = 12*types.MaxDraftLength + 64*1024

// ModelInfo describes one selectable model.
type ModelInfo struct {
	Selector string `json:"selector"`
	Model    string `json:"model"`
}

// ModelsResponse is returned by GET /models.
type ModelsResponse struct {
	Default string      `json:"default"`
	Models  []ModelInfo `json:"models"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleModels lists the selectable models
func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	resp := ModelsResponse{Default: string(s.model)}
	for _, selector := range s.llmConfig.Selectors() {
		resp.Models = append(resp.Models, ModelInfo{
			Selector: string(selector),
			Model:    s.llmConfig.GetModel(selector),
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// decodeBody decodes an optional JSON body into dst; an empty body is allowed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// handleCreateSession opens a session. The credential and model are fixed
// for the session's lifetime.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failWith(w, err)
		return
	}

	model := s.model
	if req.Model != "" {
		selector, err := s.llmConfig.ParseModelSelector(req.Model)
		if err != nil {
			s.failWith(w, &ErrValidation{Field: "model", Message: err.Error()})
			return
		}
		model = selector
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.cfg.APIKey
	}

	gatewayOpts := []llm.GatewayOption{llm.WithConfig(s.llmConfig), llm.WithVerbose(s.cfg.Verbose)}
	if s.cfg.ClientFactory != nil {
		gatewayOpts = append(gatewayOpts, llm.WithClientFactory(s.cfg.ClientFactory))
	}
	ctrl := wizard.New(
		llm.NewGateway(apiKey, gatewayOpts...),
		wizard.WithModel(model),
		wizard.WithPolicy(s.cfg.Policy),
		wizard.WithVerbose(s.cfg.Verbose),
	)

	entry := s.sessions.Create(ctrl)
	if s.cfg.Verbose {
		log.Printf("[SERVER] created session %s (model %s)", entry.id, model)
	}
	s.jsonResponse(w, http.StatusCreated, entry.snapshot())
}

// snapshot returns the session view; callers hold e.mu.
func (e *sessionEntry) snapshot() types.SessionSnapshot {
	snap := e.ctrl.Session().Snapshot()
	snap.ID = e.id.String()
	snap.Model = string(e.ctrl.Model())
	return snap
}

// generationContext keeps the request's values but not its cancellation.
// Generated artifacts are stored on the session, so a client that drops the
// connection must not leave a cancelled call behind as a failed artifact.
func generationContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// withSession resolves the {id} path value and runs fn with the session locked.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*sessionEntry)) {
	entry, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.failWith(w, err)
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch(time.Now())
	defer func() { entry.touch(time.Now()) }()
	fn(entry)
}

// handleGetSession returns the session snapshot, generating the current
// stage's artifact first if it is still pending.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) {
		e.ctrl.EnsureGenerated(generationContext(r))
		s.jsonResponse(w, http.StatusOK, e.snapshot())
	})
}

// handleDeleteSession discards a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		s.failWith(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// confirmInput decodes and validates the confirm request body.
func confirmInput(w http.ResponseWriter, r *http.Request) (wizard.Input, error) {
	var req types.ConfirmRequest
	if err := decodeBody(w, r, &req); err != nil {
		return wizard.Input{}, err
	}
	if n := utf8.RuneCountInString(req.Draft); n > types.MaxDraftLength {
		return wizard.Input{}, &ErrValidation{
			Field:   "draft",
			Message: fmt.Sprintf("draft is %d characters, the limit is %d", n, types.MaxDraftLength),
		}
	}
	if err := req.Validate(); err != nil {
		return wizard.Input{}, err
	}

	in := wizard.Input{Draft: req.Draft, SelectedTitle: req.SelectedTitle}
	if strings.TrimSpace(req.ManuscriptType) != "" {
		mt, err := types.ParseManuscriptType(req.ManuscriptType)
		if err != nil {
			return wizard.Input{}, &ErrValidation{Field: "manuscript_type", Message: err.Error()}
		}
		in.ManuscriptType = mt
	}
	return in, nil
}

// handleConfirm performs the confirm action of the session's current stage
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	in, err := confirmInput(w, r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	s.withSession(w, r, func(e *sessionEntry) {
		if err := e.ctrl.Confirm(generationContext(r), in); err != nil {
			s.failWith(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, e.snapshot())
	})
}

// stageEvent is the payload of the "stage" stream event.
type stageEvent struct {
	Stage       string `json:"stage"`
	StageNumber int    `json:"stage_number"`
	Reset       bool   `json:"reset,omitempty"`
}

// artifactEvent is the payload of the "artifact" stream event.
type artifactEvent struct {
	Stage    string             `json:"stage"`
	Artifact types.ArtifactView `json:"artifact"`
}

// handleConfirmStream performs the confirm action and streams progress as
// Server-Sent Events: "stage" on entering a stage, "artifact" when its
// artifact resolves, then "complete" with the snapshot or "error".
func (s *Server) handleConfirmStream(w http.ResponseWriter, r *http.Request) {
	in, err := confirmInput(w, r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	s.withSession(w, r, func(e *sessionEntry) {
		sse, err := NewSSEWriter(w)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}

		e.ctrl.SetObserver(func(ev wizard.Event) {
			var werr error
			switch ev.Kind {
			case wizard.EventStageEntered, wizard.EventReset:
				werr = sse.WriteEvent("stage", stageEvent{
					Stage:       ev.Stage.String(),
					StageNumber: int(ev.Stage) + 1,
					Reset:       ev.Kind == wizard.EventReset,
				})
			case wizard.EventGenerated:
				werr = sse.WriteEvent("artifact", artifactEvent{Stage: ev.Stage.String(), Artifact: ev.Artifact.View()})
			}
			if werr != nil && s.cfg.Verbose {
				log.Printf("[SERVER] stream write failed: %v", werr)
			}
		})
		defer e.ctrl.SetObserver(nil)

		if err := e.ctrl.Confirm(generationContext(r), in); err != nil {
			sse.WriteError(HTTPStatus(err), err.Error())
			return
		}
		sse.WriteComplete(e.snapshot())
	})
}

// handleRetry regenerates the current stage's artifact if it failed
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) {
		if err := e.ctrl.Retry(generationContext(r)); err != nil {
			s.failWith(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, e.snapshot())
	})
}

// handleRestart discards the session's progress and returns to DRAFT
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) {
		e.ctrl.Restart()
		s.jsonResponse(w, http.StatusOK, e.snapshot())
	})
}

// stageParam parses the ?stage= query value; empty selects the current stage.
func stageParam(r *http.Request, current types.Stage) (types.Stage, error) {
	value := r.URL.Query().Get("stage")
	if value == "" {
		if current == types.StageDraft {
			return current, &ErrValidation{Field: "stage", Message: "draft stage has no artifact"}
		}
		return current, nil
	}
	stage, err := types.ParseStage(value)
	if err != nil {
		return stage, &ErrValidation{Field: "stage", Message: err.Error()}
	}
	if stage == types.StageDraft {
		return stage, &ErrValidation{Field: "stage", Message: "draft stage has no artifact"}
	}
	return stage, nil
}

// handleRender returns the HTML shown for a stage's artifact
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) {
		stage, err := stageParam(r, e.ctrl.Stage())
		if err != nil {
			s.failWith(w, err)
			return
		}
		markup, err := rendering.Render(stage, e.ctrl.Session())
		if err != nil {
			s.failWith(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, markup) //nolint:errcheck
	})
}

// handleExport downloads a stage's artifact. format=pdf prints the final
// manuscript with a headless browser.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) {
		stage, err := stageParam(r, e.ctrl.Stage())
		if err != nil {
			s.failWith(w, err)
			return
		}
		export, err := rendering.ExportFor(stage, e.ctrl.Session())
		if err != nil {
			s.failWith(w, err)
			return
		}

		switch format := r.URL.Query().Get("format"); format {
		case "":
		case "pdf":
			if stage != types.StagePostPaper {
				s.failWith(w, &ErrValidation{Field: "format", Message: "pdf is only available for the final manuscript"})
				return
			}
			export, err = rendering.PDFExport(r.Context(), export, s.cfg.Verbose)
			if err != nil {
				s.failWith(w, err)
				return
			}
		default:
			s.failWith(w, &ErrValidation{Field: "format", Message: fmt.Sprintf("unsupported format %q", format)})
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		w.WriteHeader(http.StatusOK)
		w.Write(export.Body) //nolint:errcheck
	})
}

