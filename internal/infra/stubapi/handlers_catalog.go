package stubapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"localservices-frontend/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPerPage = 10
	maxUploadBytes = 10 << 20
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// paginate applies page and per_page to n items and returns the slice bounds.
func paginate(r *http.Request, n int) (lo, hi int) {
	per, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || per <= 0 {
		per = defaultPerPage
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	lo = (page - 1) * per
	if lo > n {
		lo = n
	}
	hi = lo + per
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.categories)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	c := s.data.categoryBySlug(chi.URLParam(r, "slug"))
	if c == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type providerFilter struct {
	category  string
	q         string
	minRating float64
	lat, lng  *float64
}

func parseProviderFilter(r *http.Request) (providerFilter, error) {
	q := r.URL.Query()
	f := providerFilter{category: q.Get("category"), q: strings.ToLower(strings.TrimSpace(q.Get("q")))}
	if v := q.Get("min_rating"); v != "" {
		mr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("min_rating: %w", err)
		}
		f.minRating = mr
	}
	if q.Get("lat") != "" && q.Get("lng") != "" {
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
		if err1 != nil || err2 != nil {
			return f, fmt.Errorf("lat/lng must be numbers")
		}
		f.lat, f.lng = &lat, &lng
	}
	return f, nil
}

func (f providerFilter) match(p model.Provider) bool {
	if f.category != "" && (p.Category == nil || p.Category.Slug != f.category) {
		return false
	}
	if f.q != "" && !strings.Contains(strings.ToLower(p.FullName+" "+p.CategoryName()), f.q) {
		return false
	}
	return p.Rating() >= f.minRating
}

// handleProviders lists providers best-rated first, or nearest first when
// lat and lng are given.
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	f, err := parseProviderFilter(r)
	if err != nil {
		v := &validation{}
		v.add("filter", err.Error())
		writeValidation(w, v)
		return
	}
	s.data.mu.RLock()
	var out []model.Provider
	for _, p := range s.data.sortedProviders() {
		if l := s.data.listing(p); f.match(l) {
			out = append(out, l)
		}
	}
	s.data.mu.RUnlock()

	if f.lat != nil {
		dist := func(p model.Provider) float64 {
			if p.Latitude == nil || p.Longitude == nil {
				return 1e9
			}
			return distanceKm(*f.lat, *f.lng, *p.Latitude, *p.Longitude)
		}
		sort.SliceStable(out, func(i, j int) bool { return dist(out[i]) < dist(out[j]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating() > out[j].Rating() })
	}
	lo, hi := paginate(r, len(out))
	writeJSON(w, http.StatusOK, model.Page[model.Provider]{Data: append([]model.Provider{}, out[lo:hi]...), Total: len(out)})
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	p, ok := s.data.providers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	writeJSON(w, http.StatusOK, s.data.detail(p))
}

func (s *Server) handleProviderReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	if _, ok := s.data.providers[id]; !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	all := s.data.reviewsFor(id)
	lo, hi := paginate(r, len(all))
	writeJSON(w, http.StatusOK, model.Page[model.Review]{Data: append([]model.Review{}, all[lo:hi]...), Total: len(all)})
}

type reviewRequest struct {
	ProviderID int64  `json:"provider_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// handleCreateReview only accepts reviews from visitors who contacted the provider.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var in reviewRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	c, _ := claimsFrom(r.Context())
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p, ok := s.data.providers[in.ProviderID]
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		v := &validation{}
		v.add("rating", "The rating must be between 1 and 5.")
		writeValidation(w, v)
		return
	}
	if !s.data.contacts[contactKey{c.UserID(), p.ID}] {
		writeError(w, http.StatusForbidden, "You must contact this provider before leaving a review")
		return
	}
	acct, ok := s.data.accounts[c.UserID()]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}
	author := acct.profile
	rev := model.Review{
		ID: s.data.nextID(), Rating: in.Rating, Comment: strings.TrimSpace(in.Comment),
		User: &author, Provider: &model.Provider{ID: p.ID, FullName: p.FullName},
	}
	s.data.reviews = append(s.data.reviews, rev)
	writeJSON(w, http.StatusCreated, rev)
}

type contactRequest struct {
	ProviderID int64 `json:"provider_id"`
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var in contactRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	c, _ := claimsFrom(r.Context())
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if _, ok := s.data.providers[in.ProviderID]; !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	s.data.contacts[contactKey{c.UserID(), in.ProviderID}] = true
	writeMessage(w, http.StatusCreated, "Contact recorded")
}

func (s *Server) handleCheckContact(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.ParseInt(r.URL.Query().Get("provider_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "provider_id is required")
		return
	}
	c, _ := claimsFrom(r.Context())
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]bool{"has_contacted": s.data.contacts[contactKey{c.UserID(), pid}]})
}

func (s *Server) handleUploadPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	_, hdr, err := r.FormFile("image")
	if err != nil {
		v := &validation{}
		v.add("image", "The image field is required.")
		writeValidation(w, v)
		return
	}
	c, _ := claimsFrom(r.Context())
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p, ok := s.data.providers[c.UserID()]
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	pf := model.Portfolio{ID: s.data.nextID(), ImageURL: "/uploads/portfolio/" + filepath.Base(hdr.Filename)}
	p.Portfolios = append(p.Portfolios, pf)
	writeJSON(w, http.StatusCreated, pf)
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	c, _ := claimsFrom(r.Context())
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if p, ok := s.data.providers[c.UserID()]; ok {
		for i, pf := range p.Portfolios {
			if pf.ID == id {
				p.Portfolios = append(p.Portfolios[:i], p.Portfolios[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "Portfolio item not found")
}

// handleUploadVerification takes provider_id and a document file.
func (s *Server) handleUploadVerification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	v := &validation{}
	pid, err := strconv.ParseInt(r.FormValue("provider_id"), 10, 64)
	if err != nil {
		v.add("provider_id", "The provider id field is required.")
	}
	_, hdr, err := r.FormFile("document")
	if err != nil {
		v.add("document", "The document field is required.")
	}
	if v.failed() {
		writeValidation(w, v)
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p, ok := s.data.providers[pid]
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
		return
	}
	ver := model.Verification{
		ID:          s.data.nextID(),
		Status:      model.VerificationPending,
		DocumentURL: "/uploads/verifications/" + filepath.Base(hdr.Filename),
		Provider:    &model.Provider{ID: p.ID, FullName: p.FullName},
	}
	s.data.verifications = append(s.data.verifications, ver)
	writeJSON(w, http.StatusCreated, ver)
}

func (s *Server) handleBlogPosts(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	lo, hi := paginate(r, len(s.data.posts))
	writeJSON(w, http.StatusOK, model.Page[model.BlogPost]{
		Data:  append([]model.BlogPost{}, s.data.posts[lo:hi]...),
		Total: len(s.data.posts),
	})
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	p := s.data.postBySlug(chi.URLParam(r, "slug"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
