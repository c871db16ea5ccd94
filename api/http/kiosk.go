package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	apimodel "github.com/ofte-auth/ponto/api/model"
	"github.com/ofte-auth/ponto/internal"
	"github.com/ofte-auth/ponto/internal/model"
	"github.com/ofte-auth/ponto/internal/service"
	"github.com/ofte-auth/ponto/internal/util"
	"github.com/ofte-auth/ponto/internal/view"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
)

// Messages shown on the kiosk views.
const (
	msgRFIDNotRecognized  = "Cartão RFID não reconhecido"
	msgAccessRegistered   = "Acesso registrado com sucesso!"
	msgNothingSent        = "Nenhum dado enviado"
	msgRecordsUnavailable = "Não foi possível consultar a API de registros, tente novamente"
	msgImageNotFound      = "Imagem não encontrada"
	msgRouteNotFound      = "Rota não encontrada"
)

// KioskHandler implements the kiosk pages and its JSON API. It owns the one
// session of the kiosk and hands it to the kiosk service.
type KioskHandler struct {
	Handler

	session *model.Session
	service service.Kiosk
}

// NewKioskHandler creates the kiosk endpoint.
func NewKioskHandler(ctx context.Context, options ...func(*Handler) error) (*KioskHandler, error) {
	var err error
	handler := &KioskHandler{
		Handler: Handler{
			name: "kiosk-http-handler",
		},
		session: model.NewSession(),
	}
	for _, option := range options {
		err := option(&(handler).Handler)
		if err != nil {
			return nil, err
		}
	}
	if handler.renderer == nil {
		return nil, errors.New("renderer member is nil")
	}
	if handler.images == nil {
		handler.images = view.NewAssets(handler.options["imagesDir"])
	}

	serviceOptions := []func(*service.Service) error{
		service.OptionRecords(handler.records),
		service.OptionSession(handler.session),
		service.OptionParams(handler.options),
	}
	if handler.broker != nil {
		serviceOptions = append(serviceOptions, service.OptionMessageBroker(handler.broker))
	}
	handler.service, err = service.NewKioskService(ctx, serviceOptions...)
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// Init sets up the kiosk routes. Form routes answer HTML, /api routes JSON.
func (handler *KioskHandler) Init() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(ClientContext)

	allowedOrigins := config.GetStringSlice("cors_allowed_origins")
	if len(allowedOrigins) > 0 {
		for _, v := range allowedOrigins {
			if v == "*" {
				log.Warning("cors_allowed_origins configured without restriction (*)")
			}
		}
		cors := cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-CSRF-Token"},
			MaxAge:         300,
		})
		r.Use(cors.Handler)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/", handler.identifyView)
	r.Post("/", handler.identify)
	r.Get("/selecionar_projeto", handler.projectView)
	r.Post("/selecionar_projeto", handler.selectProject)
	r.Get("/Imagens/*", handler.image)

	r.Group(func(r chi.Router) {
		r.Use(service.ErrorHandler)

		r.Get("/api/version", handler.getVersion)
		r.Post("/api/processar_rfid", handler.processRFID)
		r.Post("/api/registrar_acesso", handler.registerAccess)
	})

	handler.bind(r)
}

// Stop ...
func (handler *KioskHandler) Stop() error {
	handler.service.Stop()
	return handler.Shutdown()
}

func notFound(w http.ResponseWriter, r *http.Request) {
	util.TextError(w, msgRouteNotFound, http.StatusNotFound)
}

func (handler *KioskHandler) getVersion(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(200)
	_, _ = w.Write([]byte(internal.Version()))
}

func (handler *KioskHandler) render(w http.ResponseWriter, name string, vars map[string]string, status int) {
	page, err := handler.renderer.Render(name, vars)
	if err != nil {
		if errors.Cause(err) == view.ErrTemplateNotFound {
			log.WithError(err).WithField("template", name).Warning("Missing template")
			util.TextError(w, fmt.Sprintf("Arquivo não encontrado: %s", name), http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("template", name).Error("Rendering template")
		util.TextError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	util.HTMLResponse(w, page, status)
}

func (handler *KioskHandler) renderIdentify(w http.ResponseWriter, erro, msg string, status int) {
	handler.render(w, view.TemplateIdentify, map[string]string{
		"erro": erro,
		"msg":  msg,
	}, status)
}

// renderSelectProject renders the project view for the session's user.
func (handler *KioskHandler) renderSelectProject(w http.ResponseWriter, erro string, status int) {
	var (
		usuario  string
		projetos strings.Builder
	)
	if user := handler.session.User(); user != nil {
		usuario = user.Name
	}
	for _, p := range handler.session.Projects() {
		projetos.WriteString(fmt.Sprintf("<option value='%s'>%s</option>", p, p))
	}
	handler.render(w, view.TemplateSelectProject, map[string]string{
		"usuario":        usuario,
		"lista_projetos": projetos.String(),
		"erro":           erro,
	}, status)
}

func (handler *KioskHandler) identifyView(w http.ResponseWriter, r *http.Request) {
	handler.renderIdentify(w, "", "", http.StatusOK)
}

func (handler *KioskHandler) projectView(w http.ResponseWriter, r *http.Request) {
	if !handler.session.Active() {
		handler.renderIdentify(w, "", "", http.StatusOK)
		return
	}
	handler.renderSelectProject(w, "", http.StatusOK)
}

func (handler *KioskHandler) identify(w http.ResponseWriter, r *http.Request) {
	_, apiErr := handler.service.Identify(r.Context(), r.PostFormValue("rfid"))
	if apiErr != nil {
		if apiErr.Code == http.StatusNotFound {
			handler.renderIdentify(w, msgRFIDNotRecognized, "", http.StatusOK)
			return
		}
		log.WithError(apiErr).Warning("Identifying card")
		handler.renderIdentify(w, msgRecordsUnavailable, "", apiErr.Code)
		return
	}
	http.Redirect(w, r, "/selecionar_projeto", http.StatusFound)
}

func (handler *KioskHandler) selectProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.renderSelectProject(w, msgNothingSent, http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	project := r.PostForm.Get("projeto")
	allocation := r.PostForm.Get("id_alocacao")

	switch {
	case project != "":
		util.JSONResponse(w, &apimodel.ProjectResources{
			Projeto:  project,
			Recursos: handler.service.ProjectResources(ctx, project),
		}, http.StatusOK)

	case allocation != "":
		id, err := parseAllocationID(allocation)
		if err != nil {
			handler.renderSelectProject(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, apiErr := handler.service.RegisterAccess(ctx, id)
		if apiErr != nil {
			erro := apiErr.Error()
			if apiErr.Code >= 500 {
				erro = msgRecordsUnavailable
			}
			handler.renderSelectProject(w, erro, apiErr.Code)
			return
		}
		handler.service.EndSession(ctx)
		handler.renderIdentify(w, "", msgAccessRegistered, http.StatusOK)

	default:
		handler.renderSelectProject(w, msgNothingSent, http.StatusOK)
	}
}

func (handler *KioskHandler) image(w http.ResponseWriter, r *http.Request) {
	b, contentType, err := handler.images.Get(chi.URLParam(r, "*"))
	if err != nil {
		if errors.Cause(err) == view.ErrAssetNotFound {
			util.TextError(w, msgImageNotFound, http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Reading image")
		util.TextError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// readJSON decodes a request body into `v`, an empty body counts as `{}`.
func readJSON(r *http.Request, v interface{}) error {
	body, err := ioutil.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, v), "unmarshalling request body")
}

func (handler *KioskHandler) processRFID(w http.ResponseWriter, r *http.Request) {
	var params apimodel.RFIDRequest
	if err := readJSON(r, &params); err != nil {
		service.NewAPIError(400, err, "processing rfid").BindHTTPRequest(r)
		return
	}
	ident, apiErr := handler.service.Identify(r.Context(), rfidFromJSON(params.RFID))
	if apiErr != nil {
		apiErr.BindHTTPRequest(r)
		return
	}
	util.JSONResponse(w, &apimodel.IdentifyResponse{
		Status:   apimodel.StatusOK,
		Usuario:  ident.User,
		Projetos: ident.Projects,
	}, http.StatusOK)
}

func (handler *KioskHandler) registerAccess(w http.ResponseWriter, r *http.Request) {
	var params apimodel.AccessRequest
	if err := readJSON(r, &params); err != nil {
		service.NewAPIError(400, err, "registering access").BindHTTPRequest(r)
		return
	}
	id, err := allocationIDFromJSON(params.IDAlocacao)
	if err != nil {
		service.NewAPIError(400, err, "registering access").BindHTTPRequest(r)
		return
	}
	event, apiErr := handler.service.RegisterAccess(r.Context(), id)
	if apiErr != nil {
		apiErr.BindHTTPRequest(r)
		return
	}
	util.JSONResponse(w, &apimodel.AccessResponse{
		Status: apimodel.StatusOK,
		Acesso: apimodel.AccessRecord{
			IDAlocacao: params.IDAlocacao,
			DataHora:   event.RegisteredAt.UTC().Format(time.RFC3339),
			Sucesso:    true,
		},
	}, http.StatusOK)
}

// parseAllocationID reads a form value. Any non-blank value counts as
// supplied, "0" included.
func parseAllocationID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, service.ErrAllocationIDRequired
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, service.ErrAllocationIDInvalid
	}
	return id, nil
}

// allocationIDFromJSON accepts a JSON number or a numeric string. A zero
// number, false, null or an empty string count as not supplied.
func allocationIDFromJSON(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "" || s == "null" || s == "false":
		return 0, service.ErrAllocationIDRequired
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, service.ErrAllocationIDInvalid
		}
		return parseAllocationID(v)
	}
	id, err := parseAllocationID(s)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, service.ErrAllocationIDRequired
	}
	return id, nil
}

// rfidFromJSON reads a card id sent as a string or as any other JSON value,
// which is then compared by its literal text. Null reads as blank.
func rfidFromJSON(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return s
}
