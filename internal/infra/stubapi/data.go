package stubapi

import (
	"math"
	"sort"
	"strings"
	"sync"

	"localservices-frontend/internal/domain/model"

	"golang.org/x/crypto/bcrypt"
)

type account struct {
	profile       model.UserProfile
	hash          []byte
	phoneVerified bool
}

type contactKey struct{ user, provider int64 }

// store is the in-memory backend state. Provider ids equal their account ids.
type store struct {
	mu   sync.RWMutex
	cost int
	seq  int64

	accounts      map[int64]*account
	providers     map[int64]*model.Provider
	categories    []model.Category
	reviews       []model.Review
	contacts      map[contactKey]bool
	verifications []model.Verification
	posts         []model.BlogPost
}

func newStore(cost int) *store {
	return &store{
		cost:      cost,
		accounts:  make(map[int64]*account),
		providers: make(map[int64]*model.Provider),
		contacts:  make(map[contactKey]bool),
	}
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *store) hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}

// findAccount looks an account up by email or phone within one role.
func (s *store) findAccount(role model.Role, match func(*model.UserProfile) bool) *account {
	for _, a := range s.accounts {
		if a.profile.Role == role && match(&a.profile) {
			return a
		}
	}
	return nil
}

func (s *store) emailTaken(email string) bool {
	for _, a := range s.accounts {
		if strings.EqualFold(a.profile.Email, email) {
			return true
		}
	}
	return false
}

func (s *store) phoneTaken(phone string) bool {
	for _, a := range s.accounts {
		if a.profile.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (s *store) categoryByID(id int64) *model.Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *store) categoryBySlug(slug string) *model.Category {
	for i := range s.categories {
		if s.categories[i].Slug == slug {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *store) rating(providerID int64) *float64 {
	var sum, n int
	for _, r := range s.reviews {
		if r.Provider != nil && r.Provider.ID == providerID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(float64(sum)/float64(n)*10) / 10
	return &avg
}

// listing is the provider as list endpoints show it, without reviews.
func (s *store) listing(p *model.Provider) model.Provider {
	out := *p
	out.Reviews, out.Portfolios = nil, nil
	out.AverageRating = s.rating(p.ID)
	return out
}

func (s *store) detail(p *model.Provider) model.Provider {
	out := *p
	out.RatingAvg = s.rating(p.ID)
	out.Reviews = s.reviewsFor(p.ID)
	out.Portfolios = append([]model.Portfolio(nil), p.Portfolios...)
	return out
}

func (s *store) reviewsFor(providerID int64) []model.Review {
	var out []model.Review
	for _, r := range s.reviews {
		if r.Provider != nil && r.Provider.ID == providerID {
			cp := r
			cp.Provider = nil
			out = append(out, cp)
		}
	}
	return out
}

func (s *store) sortedProviders() []*model.Provider {
	out := make([]*model.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) postBySlug(slug string) *model.BlogPost {
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			return &s.posts[i]
		}
	}
	return nil
}

// distanceKm is the haversine distance between two points.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const r = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * r * math.Asin(math.Sqrt(a))
}

func ptr(f float64) *float64 { return &f }

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

// seed loads the fixture accounts, catalog and content.
func (s *store) seed() error {
	hash, err := s.hash(SeedPassword)
	if err != nil {
		return err
	}
	for _, c := range []struct{ name, slug, icon string }{
		{"Plumbing", "plumber", "wrench"},
		{"Carpentry", "carpenter", "hammer"},
		{"Gardening", "gardener", "leaf"},
		{"Fumigation", "fumigation", "bug"},
		{"Catering", "catering", "utensils"},
		{"Cleaning", "cleaner", "broom"},
		{"Electrical", "electrician", "bolt"},
	} {
		s.categories = append(s.categories, model.Category{ID: int64(len(s.categories) + 1), Name: c.name, Slug: c.slug, Icon: c.icon})
	}

	addAccount := func(p model.UserProfile) *account {
		p.ID = s.nextID()
		a := &account{profile: p, hash: hash, phoneVerified: true}
		s.accounts[p.ID] = a
		return a
	}
	admin := addAccount(model.UserProfile{Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin, PhoneNumber: "+2348000000000"})
	john := addAccount(model.UserProfile{FullName: "John", Email: "john@example.com", Role: model.RoleUser, PhoneNumber: "+2348011111111"})
	mary := addAccount(model.UserProfile{FullName: "Mary Okafor", Email: "mary@example.com", Role: model.RoleUser, PhoneNumber: "+2348022222222"})

	for _, p := range []struct {
		name, email, phone, category string
		years                        int
		verified                     bool
		lat, lng                     float64
	}{
		{"Ade Plumbing Services", "ade@example.com", "+2348012345678", "plumber", 8, true, 6.5244, 3.3792},
		{"Bola Woodworks", "bola@example.com", "+2348023456789", "carpenter", 5, true, 6.4550, 3.3941},
		{"Green Thumb Gardens", "green@example.com", "+2348034567890", "gardener", 3, false, 9.0765, 7.3986},
		{"Spark Electricals", "spark@example.com", "+2348045678901", "electrician", 10, true, 6.6018, 3.3515},
	} {
		a := addAccount(model.UserProfile{FullName: p.name, Email: p.email, Role: model.RoleProvider, PhoneNumber: p.phone})
		s.providers[a.profile.ID] = &model.Provider{
			ID:              a.profile.ID,
			FullName:        p.name,
			Email:           p.email,
			PhoneNumber:     p.phone,
			Category:        s.categoryBySlug(p.category),
			ExperienceYears: p.years,
			IsVerified:      p.verified,
			Latitude:        ptr(p.lat),
			Longitude:       ptr(p.lng),
		}
	}
	provs := s.sortedProviders()

	review := func(by *account, p *model.Provider, rating int, comment string) {
		u := by.profile
		s.reviews = append(s.reviews, model.Review{
			ID: int64(len(s.reviews) + 1), Rating: rating, Comment: comment,
			User: &u, Provider: &model.Provider{ID: p.ID, FullName: p.FullName},
			CreatedAt: "2024-03-01T10:00:00Z",
		})
		s.contacts[contactKey{by.profile.ID, p.ID}] = true
	}
	review(john, provs[0], 5, "Fixed my kitchen sink in under an hour.")
	review(mary, provs[0], 4, "Good work, arrived a bit late.")
	review(john, provs[1], 4, "Solid wardrobe, fair price.")
	review(mary, provs[3], 5, "Rewired the whole flat safely.")

	s.verifications = append(s.verifications, model.Verification{
		ID: 1, Status: model.VerificationPending, DocumentURL: "/uploads/green-thumb-id.pdf",
		Provider: &model.Provider{ID: provs[2].ID, FullName: provs[2].FullName}, CreatedAt: "2024-03-02T09:00:00Z",
	})

	s.posts = append(s.posts, model.BlogPost{
		ID:         1,
		Title:      "5 Tips for Choosing a Plumber",
		Slug:       "5-tips-for-choosing-a-plumber",
		AuthorName: admin.profile.Name,
		Content: "Check reviews from previous customers before you call.\n" +
			"Ask for a quote up front and in writing.\n" +
			"Prefer verified providers on LocalServices.",
		CreatedAt: "2024-03-03T08:00:00Z",
	})
	return nil
}
