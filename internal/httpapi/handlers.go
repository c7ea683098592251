package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/llanteria/llanteria/internal/admin"
	"github.com/llanteria/llanteria/internal/common/config"
	"github.com/llanteria/llanteria/internal/common/logger"
	"github.com/llanteria/llanteria/internal/common/middleware"
	"github.com/llanteria/llanteria/internal/common/server"
	"github.com/llanteria/llanteria/internal/tire"
)

// AdminService is the admin surface the handlers call.
type AdminService interface {
	Login(ctx context.Context, nombre, password string) (*admin.LoginResult, error)
	List(ctx context.Context) ([]admin.Administrador, error)
	Get(ctx context.Context, id uint) (*admin.Administrador, error)
}

// TireService is the catalog surface the handlers call.
type TireService interface {
	List(ctx context.Context, f tire.FilterSet) ([]tire.Neumatico, error)
	Get(ctx context.Context, id uint) (*tire.Neumatico, error)
	Create(ctx context.Context, form tire.RecordForm, img *tire.Upload) (uint, error)
	Update(ctx context.Context, id uint, form tire.RecordForm, img *tire.Upload) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

// Handler wires the HTTP routes to the domain services.
type Handler struct {
	cfg          *config.Config
	log          logger.Logger
	admins       AdminService
	tires        TireService
	healthy      func() bool
	loginLimiter middleware.RateLimiter
}

func NewHandler(cfg *config.Config, log logger.Logger, admins AdminService, tires TireService, healthy func() bool) *Handler {
	h := &Handler{
		cfg:     cfg,
		log:     log,
		admins:  admins,
		tires:   tires,
		healthy: healthy,
	}
	if cfg.RateLimit.LoginAttempts > 0 {
		h.loginLimiter = middleware.NewSlidingWindow(
			time.Duration(cfg.RateLimit.LoginWindow)*time.Second,
			cfg.RateLimit.LoginAttempts,
		)
	}
	return h
}

// Routes builds the route table. Mutating catalog routes sit behind the
// bearer-token gate when auth is enabled.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.Handle("POST /api/login", server.RateLimit(h.loginLimiter)(http.HandlerFunc(h.handleLogin)))
	mux.HandleFunc("GET /api/administrador", h.handleListAdmins)
	mux.HandleFunc("GET /api/administrador/{id}", h.handleGetAdmin)

	mux.HandleFunc("GET /api/neumaticos", h.handleListTires)
	mux.HandleFunc("GET /api/neumaticos/{id}", h.handleGetTire)

	protected := server.RequireAuth(h.cfg.Auth, h.log)
	mux.Handle("POST /api/neumaticos", protected(http.HandlerFunc(h.handleCreateTire)))
	mux.Handle("PUT /api/neumaticos/{id}", protected(http.HandlerFunc(h.handleUpdateTire)))
	mux.Handle("DELETE /api/neumaticos/{id}", protected(http.HandlerFunc(h.handleDeleteTire)))

	mux.HandleFunc("GET /uploads/{file}", h.handleUploadedFile)

	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.healthy != nil && !h.healthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nombre   string `json:"nombre"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, admin.ErrMissingCredentials.Error())
		return
	}

	res, err := h.admins.Login(r.Context(), body.Nombre, body.Password)
	if err != nil {
		fail(w, err)
		return
	}

	resp := map[string]interface{}{
		"message": "Login exitoso",
		"admin":   res.Admin,
	}
	if res.Token != "" {
		resp["token"] = res.Token
		resp["expires_at"] = res.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *Handler) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.admins.Get(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) handleListTires(w http.ResponseWriter, r *http.Request) {
	tires, err := h.tires.List(r.Context(), tire.ParseFilterSet(r.URL.Query()))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tires)
}

func (h *Handler) handleGetTire(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.tires.Get(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleCreateTire(w http.ResponseWriter, r *http.Request) {
	values, img, cleanup, err := h.mutationForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Formulario inválido.")
		return
	}
	defer cleanup()

	form, err := tire.ParseRecordForm(values)
	if err != nil {
		fail(w, err)
		return
	}

	id, err := h.tires.Create(r.Context(), form, img)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Neumático agregado exitosamente",
		"id":      id,
	})
}

func (h *Handler) handleUpdateTire(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	values, img, cleanup, err := h.mutationForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Formulario inválido.")
		return
	}
	defer cleanup()

	form, err := tire.ParseRecordForm(values)
	if err != nil {
		fail(w, err)
		return
	}

	affected, err := h.tires.Update(r.Context(), id, form, img)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Neumático actualizado exitosamente",
		"affected": affected,
	})
}

func (h *Handler) handleDeleteTire(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	affected, err := h.tires.Delete(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Neumático eliminado exitosamente",
		"affected": affected,
	})
}

// handleUploadedFile serves stored asset bytes. The path value is reduced to
// its base name so nothing outside the storage root is reachable.
func (h *Handler) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("file"))
	if name == "." || name == ".." || name == "/" {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(h.cfg.Uploads.Dir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// mutationForm extracts the field values and the optional imagen file from a
// create/update request. The returned cleanup closes the upload stream.
func (h *Handler) mutationForm(r *http.Request) (url.Values, *tire.Upload, func(), error) {
	noop := func() {}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		maxBytes := h.cfg.Uploads.MaxBytes
		if maxBytes <= 0 {
			maxBytes = 32 << 20
		}
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, nil, noop, err
		}

		values := url.Values(r.MultipartForm.Value)
		fhs := r.MultipartForm.File["imagen"]
		if len(fhs) == 0 {
			return values, nil, noop, nil
		}

		f, err := fhs[0].Open()
		if err != nil {
			return nil, nil, noop, err
		}
		img := &tire.Upload{
			Filename:    fhs[0].Filename,
			ContentType: fhs[0].Header.Get("Content-Type"),
			Data:        f,
		}
		return values, img, func() { _ = f.Close() }, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, nil, noop, err
	}
	return r.PostForm, nil, noop, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "El id debe ser numérico.")
		return 0, false
	}
	return uint(id), true
}
