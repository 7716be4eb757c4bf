package shell

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/metrics"
	"localservices-frontend/internal/usecase"
)

type commandHandler func(ctx context.Context, args string) error

// errUsage marks a command that printed its usage line.
var errUsage = errors.New("usage")

// commandRoutes defines all shell commands and their handlers.
func (s *Shell) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"help":              s.handleHelp,
		"home":              s.handleHome,
		"search":            s.handleSearch,
		"open":              s.handleOpen,
		"provider":          s.handleProvider,
		"contact":           s.handleContact,
		"review":            s.handleReview,
		"reviews":           s.handleReviews,
		"login":             s.handleLogin,
		"logout":            s.handleLogout,
		"whoami":            s.handleWhoAmI,
		"register":          s.handleRegister,
		"verify":            s.handleVerify,
		"register-provider": s.handleRegisterProvider,
		"document":          s.handleDocument,
		"portfolio-add":     s.handlePortfolioAdd,
		"portfolio-remove":  s.idCommand("portfolio-remove", s.removePortfolio),
		"blog":              s.handleBlog,

		// Admin commands check the cached role before calling the backend.
		"admin":           s.adminOnly("admin", s.handleAdmin),
		"approve":         s.adminOnly("approve", s.idCommand("approve", s.approve)),
		"reject":          s.adminOnly("reject", s.idCommand("reject", s.reject)),
		"delete-review":   s.adminOnly("delete-review", s.idCommand("delete-review", s.deleteReview)),
		"delete-post":     s.adminOnly("delete-post", s.idCommand("delete-post", s.deletePost)),
		"create-post":     s.adminOnly("create-post", s.handleCreatePost),
		"edit-post":       s.adminOnly("edit-post", s.handleEditPost),
		"create-category": s.adminOnly("create-category", s.handleCreateCategory),
	}
}

func (s *Shell) dispatch(ctx context.Context, name, args string) error {
	h, ok := s.commandRoutes()[name]
	if !ok {
		metrics.IncShellCommand("unknown", "unknown")
		return s.say(s.t.T("unknown_command"))
	}
	err := h(ctx, args)
	switch {
	case errors.Is(err, errUsage):
		metrics.IncShellCommand(name, "usage")
		return nil
	case err != nil:
		metrics.IncShellCommand(name, "error")
	default:
		metrics.IncShellCommand(name, "ok")
	}
	return err
}

func (s *Shell) usage(key string, args ...interface{}) error {
	_ = s.say(s.t.T(key, args...))
	return errUsage
}

func (s *Shell) adminOnly(name string, next commandHandler) commandHandler {
	return func(ctx context.Context, args string) error {
		if u := s.front.Layout.CurrentUser(ctx); !u.IsAdmin() {
			metrics.IncAdminCommand(name, "unauthorized")
			_ = s.Push(ctx, usecase.RouteLogin)
			return domain.ErrForbidden
		}
		metrics.IncAdminCommand(name, "authorized")
		return next(ctx, args)
	}
}

// fields splits a "|"-separated form, trimming each value.
func fields(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (s *Shell) parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		_ = s.say(s.t.T("error_invalid_number", arg))
		return 0, errUsage
	}
	return id, nil
}

func (s *Shell) handleHelp(_ context.Context, _ string) error {
	return s.say(s.t.T("help_message"))
}

func (s *Shell) handleHome(ctx context.Context, _ string) error {
	return s.Push(ctx, usecase.RouteHome)
}

// handleSearch fills the search bar from flags and submits it.
func (s *Shell) handleSearch(ctx context.Context, args string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", "", "category slug")
	location := fs.String("location", "", "free-text location")
	nearMe := fs.Bool("near-me", false, "use the configured position")
	if err := fs.Parse(strings.Fields(args)); err != nil {
		return s.usage("usage_search")
	}
	bar := s.front.Search.Bar
	bar.Category = *category
	loc := *location
	if rest := fs.Args(); loc == "" && len(rest) > 0 {
		loc = strings.Join(rest, " ")
	}
	bar.SetLocation(loc)
	if *nearMe {
		if err := bar.UseCurrentLocation(ctx); err != nil {
			// the bar already notified; search without a position
			s.log.Debug().Err(err).Msg("near-me lookup failed")
		}
	}
	return bar.Submit(ctx)
}

func (s *Shell) handleOpen(ctx context.Context, args string) error {
	route := strings.TrimSpace(args)
	if !strings.HasPrefix(route, "/") {
		return s.usage("usage_open")
	}
	return s.Push(ctx, route)
}

func (s *Shell) handleProvider(ctx context.Context, args string) error {
	if args == "" {
		return s.usage("usage_provider")
	}
	id, err := s.parseID(args)
	if err != nil {
		return err
	}
	return s.Push(ctx, usecase.ProviderRoute(id))
}

func (s *Shell) handleContact(ctx context.Context, args string) error {
	kind := usecase.ContactKind(strings.ToLower(strings.TrimSpace(args)))
	if kind != usecase.ContactCall && kind != usecase.ContactWhatsApp {
		return s.usage("usage_contact")
	}
	text, err := s.front.HandleContact(ctx, kind)
	if err != nil {
		return err
	}
	return s.say(text)
}

func (s *Shell) handleReview(ctx context.Context, args string) error {
	first, comment, _ := strings.Cut(args, " ")
	rating, err := strconv.Atoi(first)
	if err != nil {
		return s.usage("usage_review")
	}
	text, err := s.front.HandleReview(ctx, rating, strings.TrimSpace(comment))
	if err != nil {
		return err
	}
	return s.say(text)
}

// handleReviews pages through the reviews of the provider on screen.
func (s *Shell) handleReviews(ctx context.Context, args string) error {
	page := 1
	if arg := strings.TrimSpace(args); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return s.usage("usage_reviews")
		}
		page = n
	}
	text, err := s.front.HandleProviderReviews(ctx, page)
	if err != nil {
		return err
	}
	return s.say(text)
}

func (s *Shell) handleLogin(ctx context.Context, args string) error {
	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		return s.usage("usage_login")
	}
	form := usecase.LoginForm{Email: parts[0], Password: parts[1]}
	if len(parts) == 3 {
		form.UserType = model.Role(strings.ToLower(parts[2]))
	}
	return s.front.HandleLogin(ctx, form)
}

func (s *Shell) handleLogout(ctx context.Context, _ string) error {
	return s.front.HandleLogout(ctx)
}

func (s *Shell) handleWhoAmI(ctx context.Context, _ string) error {
	return s.say(s.front.HandleWhoAmI(ctx))
}

func accountForm(p []string) usecase.AccountForm {
	return usecase.AccountForm{FullName: p[0], Email: p[1], PhoneNumber: p[2], Password: p[3], ConfirmPassword: p[4]}
}

func (s *Shell) handleRegister(ctx context.Context, args string) error {
	p := fields(args)
	if len(p) != 5 {
		return s.usage("usage_register")
	}
	text, err := s.front.SubmitRegistration(ctx, accountForm(p))
	if err != nil {
		return err
	}
	return s.say(text)
}

// handleVerify confirms the OTP of whichever sign-up is waiting for one.
func (s *Shell) handleVerify(ctx context.Context, args string) error {
	otp := strings.TrimSpace(args)
	if otp == "" {
		return s.usage("usage_verify")
	}
	if reg := s.front.ProviderRegistration(); reg != nil && reg.Step() == usecase.StepOTP {
		text, err := s.front.VerifyProviderRegistration(ctx, otp)
		if err != nil {
			return err
		}
		return s.say(text)
	}
	return s.front.VerifyRegistration(ctx, otp)
}

func (s *Shell) handleRegisterProvider(ctx context.Context, args string) error {
	p := fields(args)
	if len(p) < 7 || len(p) > 8 {
		return s.usage("usage_register_provider")
	}
	categoryID, err := s.parseID(p[5])
	if err != nil {
		return err
	}
	years, err := strconv.Atoi(p[6])
	if err != nil || years < 0 {
		return s.usage("error_invalid_number", p[6])
	}
	form := usecase.ProviderForm{AccountForm: accountForm(p), CategoryID: categoryID, ExperienceYears: years}
	if len(p) == 8 {
		form.Address = p[7]
	}
	if s.front.ProviderRegistration() == nil {
		s.front.StartProviderRegistration(ctx)
	}
	text, err := s.front.SubmitProviderRegistration(ctx, form)
	if err != nil {
		return err
	}
	return s.say(text)
}

// openFile opens a local file for upload. The caller closes it.
func (s *Shell) openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("open upload")
		return nil, s.usage("error_open_document", path)
	}
	return f, nil
}

func (s *Shell) handleDocument(ctx context.Context, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		return s.usage("usage_document")
	}
	f, err := s.openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.front.UploadProviderDocument(ctx, &usecase.Document{Name: filepath.Base(path), Content: f})
}

func (s *Shell) handlePortfolioAdd(ctx context.Context, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		return s.usage("usage_portfolio_add")
	}
	f, err := s.openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.front.AddPortfolioImage(ctx, &usecase.Document{Name: filepath.Base(path), Content: f})
}

func (s *Shell) handleBlog(ctx context.Context, args string) error {
	if slug := strings.TrimSpace(args); slug != "" {
		return s.Push(ctx, usecase.BlogPostRoute(slug))
	}
	return s.Push(ctx, usecase.RouteBlog)
}

func (s *Shell) handleAdmin(ctx context.Context, args string) error {
	section := strings.TrimSpace(args)
	if strings.ContainsAny(section, " /") {
		return s.usage("usage_admin")
	}
	if section == "" {
		return s.Push(ctx, usecase.RouteAdmin)
	}
	return s.Push(ctx, usecase.RouteAdmin+"/"+section)
}

// idCommand parses the single id argument of a row action.
func (s *Shell) idCommand(name string, next func(ctx context.Context, id int64) error) commandHandler {
	return func(ctx context.Context, args string) error {
		if args == "" {
			return s.usage("usage_admin_id", name)
		}
		id, err := s.parseID(args)
		if err != nil {
			return err
		}
		return next(ctx, id)
	}
}

func (s *Shell) approve(ctx context.Context, id int64) error {
	return s.afterAction(ctx, s.front.Admin.Approve(ctx, id), "verifications")
}

func (s *Shell) reject(ctx context.Context, id int64) error {
	return s.afterAction(ctx, s.front.Admin.Reject(ctx, id), "verifications")
}

func (s *Shell) deleteReview(ctx context.Context, id int64) error {
	return s.afterAction(ctx, s.front.Admin.DeleteReview(ctx, id), "reviews")
}

func (s *Shell) deletePost(ctx context.Context, id int64) error {
	return s.afterAction(ctx, s.front.Admin.DeletePost(ctx, id), "blog")
}

// afterAction re-renders the admin table an action changed.
func (s *Shell) afterAction(ctx context.Context, err error, section string) error {
	if err != nil {
		return err
	}
	return s.Push(ctx, usecase.RouteAdmin+"/"+section)
}

func (s *Shell) removePortfolio(ctx context.Context, id int64) error {
	return s.front.RemovePortfolioImage(ctx, id)
}

// postDraft reads "<title>|<content>[|<slug>|<image url>]".
func postDraft(p []string) (usecase.PostDraft, bool) {
	if len(p) < 2 || len(p) > 4 {
		return usecase.PostDraft{}, false
	}
	d := usecase.PostDraft{Title: p[0], Content: p[1]}
	if len(p) > 2 {
		d.Slug = p[2]
	}
	if len(p) > 3 {
		d.FeaturedImageURL = p[3]
	}
	return d, true
}

func (s *Shell) handleCreatePost(ctx context.Context, args string) error {
	d, ok := postDraft(fields(args))
	if !ok {
		return s.usage("usage_create_post")
	}
	post, err := s.front.Admin.CreatePost(ctx, d)
	if err != nil {
		return err
	}
	return s.Push(ctx, usecase.BlogPostRoute(post.Slug))
}

func (s *Shell) handleEditPost(ctx context.Context, args string) error {
	p := fields(args)
	if len(p) < 3 {
		return s.usage("usage_edit_post")
	}
	id, err := s.parseID(p[0])
	if err != nil {
		return err
	}
	d, ok := postDraft(p[1:])
	if !ok {
		return s.usage("usage_edit_post")
	}
	post, err := s.front.Admin.EditPost(ctx, id, d)
	if err != nil {
		return err
	}
	return s.Push(ctx, usecase.BlogPostRoute(post.Slug))
}

func (s *Shell) handleCreateCategory(ctx context.Context, args string) error {
	p := fields(args)
	if len(p) < 1 || len(p) > 2 {
		return s.usage("usage_create_category")
	}
	slug := ""
	if len(p) == 2 {
		slug = p[1]
	}
	if _, err := s.front.Admin.CreateCategory(ctx, p[0], slug); err != nil {
		return err
	}
	return s.afterAction(ctx, nil, "categories")
}
