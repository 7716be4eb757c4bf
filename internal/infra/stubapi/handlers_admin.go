package stubapi

import (
	"net/http"
	"sort"
	"strings"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/logging"
)

func (s *Server) handleAdminPosts(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, append([]model.BlogPost{}, s.data.posts...))
}

// postForm reads a multipart or urlencoded post body. exceptID skips the
// post being updated in the slug uniqueness check.
func (s *Server) postForm(r *http.Request, exceptID int64) (model.BlogPost, *validation) {
	v := &validation{}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		v.add("form", "Invalid form")
		return model.BlogPost{}, v
	}
	p := model.BlogPost{
		Title:            strings.TrimSpace(r.FormValue("title")),
		Slug:             strings.TrimSpace(r.FormValue("slug")),
		Content:          r.FormValue("content"),
		FeaturedImageURL: strings.TrimSpace(r.FormValue("featured_image_url")),
	}
	if p.Title == "" {
		v.add("title", "The title field is required.")
	}
	if p.Slug == "" {
		v.add("slug", "The slug field is required.")
	} else if other := s.data.postBySlug(p.Slug); other != nil && other.ID != exceptID {
		v.add("slug", "The slug has already been taken.")
	}
	if strings.TrimSpace(p.Content) == "" {
		v.add("content", "The content field is required.")
	}
	return p, v
}

func (s *Server) handleAdminCreatePost(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p, v := s.postForm(r, 0)
	if v.failed() {
		writeValidation(w, v)
		return
	}
	p.ID = s.data.nextID()
	if a, ok := s.data.accounts[c.UserID()]; ok {
		p.AuthorName = a.profile.Name
	}
	s.data.posts = append(s.data.posts, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleAdminUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.posts {
		if s.data.posts[i].ID != id {
			continue
		}
		p, v := s.postForm(r, id)
		if v.failed() {
			writeValidation(w, v)
			return
		}
		cur := &s.data.posts[i]
		cur.Title, cur.Slug, cur.Content, cur.FeaturedImageURL = p.Title, p.Slug, p.Content, p.FeaturedImageURL
		writeJSON(w, http.StatusOK, cur)
		return
	}
	writeError(w, http.StatusNotFound, "Post not found")
}

func (s *Server) handleAdminDeletePost(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i, p := range s.data.posts {
		if p.ID == id {
			s.data.posts = append(s.data.posts[:i], s.data.posts[i+1:]...)
			writeMessage(w, http.StatusOK, "Post deleted")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Post not found")
}

func (s *Server) handleAdminVerifications(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, append([]model.Verification{}, s.data.verifications...))
}

type verificationUpdate struct {
	Status string `json:"status"`
}

// handleAdminUpdateVerification approving a request marks the provider verified.
func (s *Server) handleAdminUpdateVerification(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var in verificationUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Status != model.VerificationApproved && in.Status != model.VerificationRejected {
		v := &validation{}
		v.add("status", "The selected status is invalid.")
		writeValidation(w, v)
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.verifications {
		ver := &s.data.verifications[i]
		if ver.ID != id {
			continue
		}
		ver.Status = in.Status
		if ver.Provider != nil {
			if p, ok := s.data.providers[ver.Provider.ID]; ok {
				p.IsVerified = in.Status == model.VerificationApproved
			}
		}
		logging.With(r.Context(), s.log).Info().Int64("verification_id", id).Str("status", in.Status).Msg("verification updated")
		writeJSON(w, http.StatusOK, ver)
		return
	}
	writeError(w, http.StatusNotFound, "Verification not found")
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []model.UserProfile{}
	for _, a := range s.data.accounts {
		if a.profile.Role == model.RoleUser {
			out = append(out, a.profile)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdminProviders(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []model.Provider{}
	for _, p := range s.data.sortedProviders() {
		out = append(out, s.data.listing(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdminReviews(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, append([]model.Review{}, s.data.reviews...))
}

func (s *Server) handleAdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i, rev := range s.data.reviews {
		if rev.ID == id {
			s.data.reviews = append(s.data.reviews[:i], s.data.reviews[i+1:]...)
			writeMessage(w, http.StatusOK, "Review deleted")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Review not found")
}

func (s *Server) handleAdminCategories(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, append([]model.Category{}, s.data.categories...))
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

func (s *Server) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	v := &validation{}
	if strings.TrimSpace(in.Name) == "" {
		v.add("name", "The name field is required.")
	}
	if in.Slug == "" {
		in.Slug = model.Slugify(in.Name)
	}
	if s.data.categoryBySlug(in.Slug) != nil {
		v.add("slug", "The slug has already been taken.")
	}
	if v.failed() {
		writeValidation(w, v)
		return
	}
	c := model.Category{ID: int64(len(s.data.categories) + 1), Name: strings.TrimSpace(in.Name), Slug: in.Slug, Icon: in.Icon}
	s.data.categories = append(s.data.categories, c)
	writeJSON(w, http.StatusCreated, c)
}
