package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Groozzy/api-yamdb/internal/platform/middleware"
	requestutil "github.com/Groozzy/api-yamdb/internal/platform/request"
	"github.com/Groozzy/api-yamdb/internal/platform/respond"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
	"github.com/Groozzy/api-yamdb/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the title routes on the given router. The caller
// nests review routes under the same {titleID} subtree, so this handler
// registers onto a shared router instead of owning one.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTitles)
	router.Get("/{titleID}", handler.getTitle)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.createTitle)
		r.Patch("/{titleID}", handler.updateTitle)
		r.Delete("/{titleID}", handler.deleteTitle)
	})
}

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := filterFromRequest(request)

	titles, total, err := handler.service.ListTitles(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.GetTitle(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var payload createTitleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.CreateTitle(request.Context(), requestutil.Claims(request), CreateTitleInput{
		Name:         payload.Name,
		Year:         payload.Year,
		Description:  payload.Description,
		CategorySlug: payload.Category,
		GenreSlugs:   payload.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload updateTitleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.UpdateTitle(request.Context(), requestutil.Claims(request), titleID, UpdateTitleInput{
		Name:         payload.Name,
		Year:         payload.Year,
		Description:  payload.Description,
		CategorySlug: payload.Category,
		GenreSlugs:   payload.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTitle(request.Context(), requestutil.Claims(request), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// filterFromRequest parses the optional catalogue filters from the query
// string. An unparsable year is ignored rather than rejected.
func filterFromRequest(request *http.Request) Filter {
	query := request.URL.Query()

	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}

	if rawYear := query.Get("year"); rawYear != "" {
		if year, err := strconv.Atoi(rawYear); err == nil {
			filter.Year = pointer.To(year)
		}
	}

	return filter
}
