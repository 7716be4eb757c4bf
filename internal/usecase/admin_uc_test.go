//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/usecase"
	"localservices-frontend/internal/view"
)

func adminEnv() *testEnv {
	env := newTestEnv()
	env.signIn(&model.UserProfile{ID: 1, Name: "Admin", Role: model.RoleAdmin})
	return env
}

func TestAdminConsole_Guard(t *testing.T) {
	ctx := context.Background()
	for name, u := range map[string]*model.UserProfile{
		"anonymous": nil,
		"customer":  {ID: 2, Role: model.RoleUser},
		"provider":  {ID: 3, Role: model.RoleProvider},
	} {
		t.Run(name+" is sent to login", func(t *testing.T) {
			env := newTestEnv()
			if u != nil {
				env.signIn(u)
			}
			be := &MockBackend{}
			_, err := usecase.NewAdminConsole(env.Env, be).Users(ctx)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if env.nav.Last() != usecase.RouteLogin {
				t.Errorf("expected login redirect, got %q", env.nav.Last())
			}
			if be.CallCount() != 0 {
				t.Errorf("no backend calls expected, got %v", be.Calls)
			}
		})
	}

	t.Run("admin sees the menu", func(t *testing.T) {
		items, err := usecase.NewAdminConsole(adminEnv().Env, &MockBackend{}).Menu(ctx)
		if err != nil || len(items) == 0 {
			t.Fatalf("expected menu, got %v %v", items, err)
		}
	})
}

func TestAdminConsole_Verifications(t *testing.T) {
	ctx := context.Background()

	t.Run("only pending requests are listed", func(t *testing.T) {
		be := &MockBackend{AdminVerificationsFunc: func() ([]model.Verification, error) {
			return []model.Verification{
				{ID: 1, Status: model.VerificationPending},
				{ID: 2, Status: model.VerificationApproved},
				{ID: 3, Status: model.VerificationPending},
			}, nil
		}}
		s, err := usecase.NewAdminConsole(adminEnv().Env, be).Verifications(ctx)
		if err != nil {
			t.Fatal(err)
		}
		items, ok := s.Data()
		if !ok || len(items) != 2 || items[0].ID != 1 || items[1].ID != 3 {
			t.Fatalf("unexpected state %v %+v", s, items)
		}
	})

	t.Run("none pending is Empty", func(t *testing.T) {
		s, _ := usecase.NewAdminConsole(adminEnv().Env, &MockBackend{}).Verifications(ctx)
		if s.Kind() != view.Empty {
			t.Fatalf("expected Empty, got %v", s)
		}
	})

	t.Run("approve sends status after confirmation", func(t *testing.T) {
		env := adminEnv()
		var sent api.VerificationUpdate
		be := &MockBackend{AdminUpdateVerifFunc: func(_ int64, in api.VerificationUpdate) error { sent = in; return nil }}
		if err := usecase.NewAdminConsole(env.Env, be).Approve(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if sent.Status != model.VerificationApproved {
			t.Errorf("expected approved, got %q", sent.Status)
		}
		if len(env.confirm.Prompts) != 1 || env.confirm.Prompts[0] != "Approve this verification?" {
			t.Errorf("unexpected prompts %v", env.confirm.Prompts)
		}
	})

	t.Run("reject failure is reported", func(t *testing.T) {
		env := adminEnv()
		be := &MockBackend{AdminUpdateVerifFunc: func(int64, api.VerificationUpdate) error { return errNetwork }}
		err := usecase.NewAdminConsole(env.Env, be).Reject(ctx, 1)
		if usecase.Message(err) != "Failed to reject verification" {
			t.Errorf("unexpected %q", usecase.Message(err))
		}
	})
}

func TestAdminConsole_DestructiveActionsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	actions := map[string]func(*usecase.AdminConsole) error{
		"delete review": func(a *usecase.AdminConsole) error { return a.DeleteReview(ctx, 1) },
		"delete post":   func(a *usecase.AdminConsole) error { return a.DeletePost(ctx, 1) },
		"approve":       func(a *usecase.AdminConsole) error { return a.Approve(ctx, 1) },
		"reject":        func(a *usecase.AdminConsole) error { return a.Reject(ctx, 1) },
	}
	for name, act := range actions {
		t.Run(name+" declined issues no call", func(t *testing.T) {
			env := adminEnv()
			env.confirm.Answer = false
			be := &MockBackend{}
			if err := act(usecase.NewAdminConsole(env.Env, be)); !errors.Is(err, domain.ErrCancelled) {
				t.Fatalf("expected ErrCancelled, got %v", err)
			}
			if be.CallCount() != 0 {
				t.Errorf("expected no calls, got %v", be.Calls)
			}
		})
		t.Run(name+" confirmed issues one call", func(t *testing.T) {
			env := adminEnv()
			be := &MockBackend{}
			if err := act(usecase.NewAdminConsole(env.Env, be)); err != nil {
				t.Fatal(err)
			}
			if be.CallCount() != 1 {
				t.Errorf("expected one call, got %v", be.Calls)
			}
		})
	}
}

func TestAdminConsole_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("slug is derived from the title", func(t *testing.T) {
		env := adminEnv()
		var slug, image string
		var hasImage bool
		be := &MockBackend{AdminCreatePostFunc: func(f *api.Form) (model.BlogPost, error) {
			slug, _ = f.Value("slug")
			image, hasImage = f.Value("featured_image_url")
			return model.BlogPost{ID: 9, Slug: slug}, nil
		}}
		post, err := usecase.NewAdminConsole(env.Env, be).CreatePost(ctx, usecase.PostDraft{Title: "5 Tips: Fixing  a Leaky Tap!", Content: "..."})
		if err != nil {
			t.Fatal(err)
		}
		if slug != "5-tips-fixing-a-leaky-tap" || post.Slug != slug {
			t.Errorf("unexpected slug %q", slug)
		}
		if hasImage {
			t.Errorf("empty image url should be omitted, got %q", image)
		}
	})

	t.Run("validation errors are flattened", func(t *testing.T) {
		be := &MockBackend{AdminCreatePostFunc: func(*api.Form) (model.BlogPost, error) {
			return model.BlogPost{}, validationErr(
				api.FieldError{Field: "title", Messages: []string{"Title required"}},
				api.FieldError{Field: "slug", Messages: []string{"Slug taken"}},
			)
		}}
		_, err := usecase.NewAdminConsole(adminEnv().Env, be).CreatePost(ctx, usecase.PostDraft{Slug: "x"})
		if usecase.Message(err) != "Title required, Slug taken" {
			t.Errorf("unexpected %q", usecase.Message(err))
		}
	})
}

func TestAdminConsole_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("failed list shows the static message", func(t *testing.T) {
		be := &MockBackend{AdminUsersFunc: func() ([]model.UserProfile, error) { return nil, errNetwork }}
		s, err := usecase.NewAdminConsole(adminEnv().Env, be).Users(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if s.Kind() != view.Errored || s.Message() != "Failed to load users" {
			t.Fatalf("unexpected state %v", s)
		}
	})

	t.Run("no reviews is Empty", func(t *testing.T) {
		s, _ := usecase.NewAdminConsole(adminEnv().Env, &MockBackend{}).Reviews(ctx)
		if s.Kind() != view.Empty {
			t.Fatalf("expected Empty, got %v", s)
		}
	})

	t.Run("zero rows in every table is Empty", func(t *testing.T) {
		a := usecase.NewAdminConsole(adminEnv().Env, &MockBackend{})
		users, _ := a.Users(ctx)
		providers, _ := a.Providers(ctx)
		categories, _ := a.Categories(ctx)
		for _, got := range []struct {
			kind view.Kind
			msg  string
			want string
		}{
			{users.Kind(), users.Message(), "No users found"},
			{providers.Kind(), providers.Message(), "No providers found"},
			{categories.Kind(), categories.Message(), "No categories found"},
		} {
			if got.kind != view.Empty || got.msg != got.want {
				t.Errorf("expected Empty %q, got %v %q", got.want, got.kind, got.msg)
			}
		}
	})

	t.Run("create category derives slug", func(t *testing.T) {
		var got api.CategoryRequest
		be := &MockBackend{AdminCreateCatFunc: func(in api.CategoryRequest) (model.Category, error) {
			got = in
			return model.Category{ID: 8, Name: in.Name, Slug: in.Slug}, nil
		}}
		if _, err := usecase.NewAdminConsole(adminEnv().Env, be).CreateCategory(ctx, "Pest Control", ""); err != nil {
			t.Fatal(err)
		}
		if got.Slug != "pest-control" {
			t.Errorf("unexpected slug %q", got.Slug)
		}
	})
}

func TestAdminConsole_EditPost(t *testing.T) {
	ctx := context.Background()

	t.Run("sends every field and derives the slug", func(t *testing.T) {
		env := adminEnv()
		var (
			gotID      int64
			title, slg string
		)
		be := &MockBackend{AdminUpdatePostFunc: func(id int64, f *api.Form) (model.BlogPost, error) {
			gotID = id
			title, _ = f.Value("title")
			slg, _ = f.Value("slug")
			return model.BlogPost{ID: id, Title: title, Slug: slg}, nil
		}}
		post, err := usecase.NewAdminConsole(env.Env, be).EditPost(ctx, 3, usecase.PostDraft{Title: "Hiring a Caterer", Content: "..."})
		if err != nil {
			t.Fatal(err)
		}
		if gotID != 3 || title != "Hiring a Caterer" || slg != "hiring-a-caterer" || post.Slug != slg {
			t.Errorf("unexpected update id=%d title=%q slug=%q", gotID, title, slg)
		}
		if len(env.notifier.Messages) != 1 || env.notifier.Messages[0] != "Blog post updated" {
			t.Errorf("unexpected notices %v", env.notifier.Messages)
		}
	})

	t.Run("rejection shows validation or the fallback", func(t *testing.T) {
		be := &MockBackend{AdminUpdatePostFunc: func(int64, *api.Form) (model.BlogPost, error) {
			return model.BlogPost{}, validationErr(api.FieldError{Field: "slug", Messages: []string{"Slug taken"}})
		}}
		_, err := usecase.NewAdminConsole(adminEnv().Env, be).EditPost(ctx, 3, usecase.PostDraft{Title: "x", Slug: "taken"})
		if usecase.Message(err) != "Slug taken" {
			t.Errorf("unexpected %q", usecase.Message(err))
		}

		be = &MockBackend{AdminUpdatePostFunc: func(int64, *api.Form) (model.BlogPost, error) {
			return model.BlogPost{}, errNetwork
		}}
		_, err = usecase.NewAdminConsole(adminEnv().Env, be).EditPost(ctx, 3, usecase.PostDraft{Title: "x"})
		if usecase.Message(err) != "Failed to update blog post" {
			t.Errorf("unexpected %q", usecase.Message(err))
		}
	})

	t.Run("non-admin never reaches the backend", func(t *testing.T) {
		be := &MockBackend{}
		_, err := usecase.NewAdminConsole(newTestEnv().Env, be).EditPost(ctx, 3, usecase.PostDraft{Title: "x"})
		if !errors.Is(err, domain.ErrForbidden) || be.Called("AdminUpdateBlogPost") != 0 {
			t.Fatalf("expected guard, got %v calls=%v", err, be.Calls)
		}
	})
}
