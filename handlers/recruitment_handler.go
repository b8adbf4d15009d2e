package handlers

import (
	"net/http"
	"strconv"

	"github.com/scrimhub/scrimhub/middleware"
	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"github.com/scrimhub/scrimhub/services"
)

type RecruitmentHandler struct {
	recruitmentService services.RecruitmentService
}

func NewRecruitmentHandler(recruitmentService services.RecruitmentService) *RecruitmentHandler {
	return &RecruitmentHandler{recruitmentService: recruitmentService}
}

func (h *RecruitmentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.AuthorID = currentUserID

	post, err := h.recruitmentService.CreatePost(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecruitmentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.recruitmentService.GetPostByID(r.Context(), postID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecruitmentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListPostsFilter{}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		kind := models.RecruitmentKind(kindStr)
		filter.Kind = &kind
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.RecruitmentStatus(statusStr)
		filter.Status = &status
	}

	posts, err := h.recruitmentService.ListPosts(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecruitmentHandler) ClosePost(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.recruitmentService.ClosePost(r.Context(), postID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecruitmentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.recruitmentService.DeletePost(r.Context(), postID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecruitmentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	req, err := h.recruitmentService.Apply(r.Context(), postID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"request": req}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RecruitmentHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	requests, err := h.recruitmentService.ListApplications(r.Context(), postID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type resolveApplicationInput struct {
	Accept bool `json:"accept"`
}

func (h *RecruitmentHandler) ResolveApplication(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input resolveApplicationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.recruitmentService.ResolveApplication(r.Context(), requestID, currentUserID, input.Accept); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
