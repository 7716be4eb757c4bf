package application

import (
	"fmt"
	"strings"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/usecase"
	"localservices-frontend/internal/view"
)

// renderState prints the message for every state but Populated, which body renders.
func renderState[T any](s view.State[T], body func(T) string) string {
	switch s.Kind() {
	case view.Loading:
		return "Loading..."
	case view.Empty, view.Errored:
		return s.Message()
	}
	data, _ := s.Data()
	return body(data)
}

func stars(r float64) string { return fmt.Sprintf("★ %.1f", r) }

func providerLine(p model.Provider) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  [%d] %s", p.ID, p.FullName)
	if c := p.CategoryName(); c != "" {
		fmt.Fprintf(&b, " · %s", c)
	}
	fmt.Fprintf(&b, " · %s", stars(p.Rating()))
	if p.ExperienceYears > 0 {
		fmt.Fprintf(&b, " · %dy", p.ExperienceYears)
	}
	if p.IsVerified {
		b.WriteString(" ✓")
	}
	return b.String()
}

func renderHome(t *i18n.Translator, s view.State[usecase.HomeData]) string {
	return renderState(s, func(d usecase.HomeData) string {
		var b strings.Builder
		b.WriteString(t.T("home_title") + "\n\n")
		b.WriteString(t.T("categories_header") + "\n")
		for _, c := range d.Categories {
			fmt.Fprintf(&b, "  - %s (%s)\n", c.Name, c.Slug)
		}
		b.WriteString("\n" + t.T("featured_header") + "\n")
		for _, p := range d.Featured {
			b.WriteString(providerLine(p) + "\n")
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

func renderSearch(page *usecase.SearchPage, s view.State[usecase.SearchResult]) string {
	return renderState(s, func(r usecase.SearchResult) string {
		var b strings.Builder
		if r.Category != nil {
			b.WriteString(r.Category.Name + "\n")
		}
		b.WriteString(page.Summary(r) + "\n")
		for _, p := range r.Providers {
			b.WriteString(providerLine(p) + "\n")
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

func renderProvider(t *i18n.Translator, s view.State[usecase.ProviderView], signedIn bool) string {
	return renderState(s, func(v usecase.ProviderView) string {
		p := v.Provider
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", p.FullName)
		if c := p.CategoryName(); c != "" {
			fmt.Fprintf(&b, "%s\n", c)
		}
		fmt.Fprintf(&b, "%s · %d years experience", stars(p.Rating()), p.ExperienceYears)
		if p.IsVerified {
			b.WriteString(" · " + t.T("verified_badge"))
		}
		b.WriteString("\n")
		if len(p.Portfolios) > 0 {
			fmt.Fprintf(&b, "Portfolio: %d image(s)\n", len(p.Portfolios))
			for _, img := range p.Portfolios {
				fmt.Fprintf(&b, "  [%d] %s\n", img.ID, img.ImageURL)
			}
		}
		b.WriteString("\n" + t.T("reviews_header") + "\n")
		if len(p.Reviews) == 0 {
			b.WriteString("  " + t.T("no_reviews") + "\n")
		}
		for _, r := range p.Reviews {
			b.WriteString(reviewLine(r) + "\n")
		}
		switch {
		case !signedIn:
			b.WriteString("\n" + t.T("contact_login_hint"))
		case v.HasContacted:
			b.WriteString("\n" + t.T("review_hint"))
		default:
			b.WriteString("\n" + t.T("contact_hint"))
		}
		return b.String()
	})
}

func reviewLine(r model.Review) string {
	name := "Anonymous"
	if r.User != nil {
		name = r.User.DisplayName()
	}
	return fmt.Sprintf("  %s %s: %s", strings.Repeat("★", r.Rating), name, r.Comment)
}

func renderReviewPage(t *i18n.Translator, s view.State[model.Page[model.Review]], page int) string {
	if page < 1 {
		page = 1
	}
	return renderState(s, func(pg model.Page[model.Review]) string {
		var b strings.Builder
		b.WriteString(t.T("reviews_page", page, pg.Total))
		for _, r := range pg.Data {
			b.WriteString("\n" + reviewLine(r))
		}
		return b.String()
	})
}

func renderBlogIndex(t *i18n.Translator, s view.State[[]model.BlogPost]) string {
	return renderState(s, func(posts []model.BlogPost) string {
		var b strings.Builder
		b.WriteString(t.T("blog_title") + "\n")
		for _, p := range posts {
			fmt.Fprintf(&b, "\n%s (/blog/%s)\n  %s\n", p.Title, p.Slug, model.Excerpt(p.Content, usecase.ExcerptLength))
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

func renderPost(s view.State[model.BlogPost]) string {
	return renderState(s, func(p model.BlogPost) string {
		var b strings.Builder
		b.WriteString(p.Title + "\n")
		if p.AuthorName != "" {
			fmt.Fprintf(&b, "by %s\n", p.AuthorName)
		}
		for _, para := range p.Paragraphs() {
			b.WriteString("\n" + para)
		}
		return b.String()
	})
}

func renderCategoryChoice(t *i18n.Translator, cats []model.Category) string {
	var b strings.Builder
	b.WriteString(t.T("choose_category") + "\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "  [%d] %s\n", c.ID, c.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMenu(t *i18n.Translator, items []usecase.MenuItem) string {
	var b strings.Builder
	b.WriteString(t.T("admin_title") + "\n")
	for _, it := range items {
		fmt.Fprintf(&b, "  %-24s %s (%s)\n", it.Title, it.Description, it.Route)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderVerifications(s view.State[[]model.Verification]) string {
	return renderState(s, func(vs []model.Verification) string {
		lines := make([]string, 0, len(vs))
		for _, v := range vs {
			name := ""
			if v.Provider != nil {
				name = v.Provider.FullName
			}
			lines = append(lines, fmt.Sprintf("  [%d] %s %s %s", v.ID, name, v.Status, v.DocumentURL))
		}
		return strings.Join(lines, "\n")
	})
}

func renderAdminProviders(s view.State[[]model.Provider]) string {
	return renderState(s, func(ps []model.Provider) string {
		lines := make([]string, 0, len(ps))
		for _, p := range ps {
			lines = append(lines, providerLine(p))
		}
		return strings.Join(lines, "\n")
	})
}

func renderUsers(s view.State[[]model.UserProfile]) string {
	return renderState(s, func(us []model.UserProfile) string {
		lines := make([]string, 0, len(us))
		for _, u := range us {
			lines = append(lines, fmt.Sprintf("  [%d] %s <%s> %s", u.ID, u.DisplayName(), u.Email, u.PhoneNumber))
		}
		return strings.Join(lines, "\n")
	})
}

func renderReviews(s view.State[[]model.Review]) string {
	return renderState(s, func(rs []model.Review) string {
		lines := make([]string, 0, len(rs))
		for _, r := range rs {
			who, whom := "", ""
			if r.User != nil {
				who = r.User.DisplayName()
			}
			if r.Provider != nil {
				whom = r.Provider.FullName
			}
			lines = append(lines, fmt.Sprintf("  [%d] %s → %s %d/5 %s", r.ID, who, whom, r.Rating, r.Comment))
		}
		return strings.Join(lines, "\n")
	})
}

func renderAdminPosts(s view.State[[]model.BlogPost]) string {
	return renderState(s, func(ps []model.BlogPost) string {
		lines := make([]string, 0, len(ps))
		for _, p := range ps {
			lines = append(lines, fmt.Sprintf("  [%d] %s (/blog/%s) %s", p.ID, p.Title, p.Slug, p.CreatedAt))
		}
		return strings.Join(lines, "\n")
	})
}

func renderCategories(s view.State[[]model.Category]) string {
	return renderState(s, func(cs []model.Category) string {
		lines := make([]string, 0, len(cs))
		for _, c := range cs {
			lines = append(lines, fmt.Sprintf("  [%d] %s (%s)", c.ID, c.Name, c.Slug))
		}
		return strings.Join(lines, "\n")
	})
}
