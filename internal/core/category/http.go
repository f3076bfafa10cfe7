package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Groozzy/api-yamdb/internal/platform/middleware"
	requestutil "github.com/Groozzy/api-yamdb/internal/platform/request"
	"github.com/Groozzy/api-yamdb/internal/platform/respond"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the category route group.
//
// Reads are open to anonymous callers; mutations are gated at the route
// level and re-checked in the service.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/{slug}", handler.getCategory)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.createCategory)
		r.Delete("/{slug}", handler.deleteCategory)
	})

	return router
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	categories, total, err := handler.service.ListCategories(request.Context(), search, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	category, err := handler.service.GetCategory(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var payload createCategoryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), requestutil.Claims(request), CreateCategoryInput{
		Name: payload.Name,
		Slug: payload.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.service.DeleteCategory(request.Context(), requestutil.Claims(request), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
