package franchise_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fieldops/franchise-client/internal/credential"
	"github.com/fieldops/franchise-client/internal/franchise"
	"github.com/fieldops/franchise-client/internal/httpapi"
	"github.com/fieldops/franchise-client/internal/kvstore"
	"github.com/fieldops/franchise-client/internal/session"
	"github.com/fieldops/franchise-client/internal/testingx"
	"github.com/google/go-cmp/cmp"
)

type fixture struct {
	backend *testingx.FranchiseBackend
	srv     *httptest.Server
	store   *credential.Store
	svc     *franchise.Service
}

func newFixture(t *testing.T) *fixture {
	backend := &testingx.FranchiseBackend{}
	backend.AddUser("owner@example.com", "secret", "Owner")
	srv := httptest.NewServer(backend.NewMux())
	t.Cleanup(srv.Close)
	store := credential.NewStore(kvstore.NewMemory())
	client := &httpapi.Client{
		BaseURL:     srv.URL,
		Credentials: store,
		Registry:    franchise.NewRegistry(),
	}
	return &fixture{
		backend: backend,
		srv:     srv,
		store:   store,
		svc:     franchise.NewService(client),
	}
}

func (fx *fixture) login(t *testing.T) {
	t.Helper()
	creds := franchise.Credentials{Email: "owner@example.com", Password: "secret"}
	if _, err := fx.svc.Login(context.Background(), creds); err != nil {
		t.Fatal(err)
	}
}

func (fx *fixture) token(t *testing.T) (string, bool) {
	t.Helper()
	token, found, err := fx.store.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return token, found
}

func mustAPIError(t *testing.T, err error, kind httpapi.Kind, status int) *httpapi.Error {
	t.Helper()
	var apiErr *httpapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatal("expected an *httpapi.Error, got", err)
	}
	if apiErr.Kind != kind || apiErr.Status != status {
		t.Fatal("unexpected error", apiErr.Kind, apiErr.Status)
	}
	return apiErr
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("on success we store the token", func(t *testing.T) {
		fx := newFixture(t)
		resp, err := fx.svc.Login(ctx, franchise.Credentials{Email: "owner@example.com", Password: "secret"})
		if err != nil {
			t.Fatal(err)
		}
		token, found := fx.token(t)
		if !found || token != resp.Token {
			t.Fatal("expected the token to be stored")
		}
		if resp.User.Name != "Owner" {
			t.Fatal("unexpected user", resp.User)
		}
	})

	t.Run("on failure we store nothing", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.Login(ctx, franchise.Credentials{Email: "owner@example.com", Password: "nope"})
		apiErr := mustAPIError(t, err, httpapi.KindHTTP, http.StatusUnauthorized)
		if apiErr.Message != "Invalid email or password" {
			t.Fatal("unexpected message", apiErr.Message)
		}
		if _, found := fx.token(t); found {
			t.Fatal("expected no stored token")
		}
	})

	t.Run("a response without token is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"name":"x"}}`))
		}))
		defer srv.Close()
		store := credential.NewStore(kvstore.NewMemory())
		svc := franchise.NewService(&httpapi.Client{
			BaseURL:     srv.URL,
			Credentials: store,
			Registry:    franchise.NewRegistry(),
		})
		if _, err := svc.Login(ctx, franchise.Credentials{}); !errors.Is(err, franchise.ErrMissingToken) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("without a credential store", func(t *testing.T) {
		svc := franchise.NewService(&httpapi.Client{Registry: franchise.NewRegistry()})
		if _, err := svc.Login(ctx, franchise.Credentials{}); !errors.Is(err, franchise.ErrNoCredentials) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("with a live session", func(t *testing.T) {
		fx := newFixture(t)
		fx.login(t)
		if fx.backend.NumTokens() != 1 {
			t.Fatal("expected one token")
		}
		if err := fx.svc.Logout(ctx); err != nil {
			t.Fatal(err)
		}
		if fx.backend.NumTokens() != 0 {
			t.Fatal("expected the server to drop the token")
		}
		if _, found := fx.token(t); found {
			t.Fatal("expected no stored token")
		}
	})

	t.Run("when the server is unreachable we still remove the token", func(t *testing.T) {
		fx := newFixture(t)
		fx.login(t)
		fx.srv.Close()
		if err := fx.svc.Logout(ctx); err != nil {
			t.Fatal(err)
		}
		if _, found := fx.token(t); found {
			t.Fatal("expected no stored token")
		}
	})

	t.Run("in demo mode we do not call the server", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()
		store := credential.NewStore(kvstore.NewMemory())
		svc := franchise.NewService(&httpapi.Client{
			BaseURL:     srv.URL,
			Credentials: store,
			Registry:    franchise.NewRegistry(),
		})
		if err := svc.EnterDemoMode(ctx); err != nil {
			t.Fatal(err)
		}
		if err := svc.Logout(ctx); err != nil {
			t.Fatal(err)
		}
		if calls.Load() != 0 {
			t.Fatal("expected no calls")
		}
	})
}

func TestServiceSessionExpiry(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.login(t)

	if _, err := fx.svc.Profile(ctx); err != nil {
		t.Fatal(err)
	}

	fx.backend.ExpireTokens()

	_, err := fx.svc.Profile(ctx)
	mustAPIError(t, err, httpapi.KindHTTP, http.StatusUnauthorized)
	if _, found := fx.token(t); found {
		t.Fatal("expected the expired token to be removed")
	}
}

func TestServiceDemoMode(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	if err := fx.svc.EnterDemoMode(ctx); err != nil {
		t.Fatal(err)
	}
	demo, err := fx.svc.InDemoMode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !demo {
		t.Fatal("expected demo mode")
	}

	_, err = fx.svc.Dashboard(ctx)
	mustAPIError(t, err, httpapi.KindHTTP, http.StatusUnauthorized)

	token, found := fx.token(t)
	if !found || token != session.DefaultDemoToken {
		t.Fatal("expected the demo token to survive a 401")
	}
}

func TestServiceTechnicians(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.login(t)

	alice, err := fx.svc.CreateTechnician(ctx, franchise.Technician{Name: "Alice", Specialty: "hvac"})
	if err != nil {
		t.Fatal(err)
	}
	bob, err := fx.svc.CreateTechnician(ctx, franchise.Technician{Name: "Bob", Status: franchise.TechnicianInactive})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("validation errors carry the server message", func(t *testing.T) {
		_, err := fx.svc.CreateTechnician(ctx, franchise.Technician{})
		apiErr := mustAPIError(t, err, httpapi.KindHTTP, http.StatusUnprocessableEntity)
		if apiErr.Message != "Name is required" {
			t.Fatal("unexpected message", apiErr.Message)
		}
	})

	t.Run("list with filter", func(t *testing.T) {
		page, err := fx.svc.ListTechnicians(ctx, franchise.TechnicianQuery{Status: franchise.TechnicianInactive})
		if err != nil {
			t.Fatal(err)
		}
		if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != bob.ID {
			t.Fatal("unexpected page", page)
		}
	})

	t.Run("list with search and pagination", func(t *testing.T) {
		page, err := fx.svc.ListTechnicians(ctx, franchise.TechnicianQuery{Page: 2, Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		if page.Total != 2 || len(page.Items) != 1 || page.Items[0].Name != "Bob" {
			t.Fatal("unexpected page", page)
		}
		page, err = fx.svc.ListTechnicians(ctx, franchise.TechnicianQuery{Search: "ALI"})
		if err != nil {
			t.Fatal(err)
		}
		if page.Total != 1 || page.Items[0].ID != alice.ID {
			t.Fatal("unexpected page", page)
		}
	})

	t.Run("update", func(t *testing.T) {
		updated, err := fx.svc.UpdateTechnician(ctx, alice.ID, franchise.Technician{Name: "Alice B."})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Name != "Alice B." || updated.Status != franchise.TechnicianActive {
			t.Fatal("unexpected technician", updated)
		}
	})

	t.Run("upload photo", func(t *testing.T) {
		updated, err := fx.svc.UploadTechnicianPhoto(ctx, alice.ID, "alice.png", "image/png", []byte("\x89PNG"))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("/uploads/"+alice.ID+"/alice.png", updated.PhotoURL); diff != "" {
			t.Fatal(diff)
		}
		stored, _ := fx.backend.Technician(alice.ID)
		if stored.PhotoURL != updated.PhotoURL {
			t.Fatal("expected the backend to store the photo URL")
		}
	})

	t.Run("get and delete", func(t *testing.T) {
		got, err := fx.svc.GetTechnician(ctx, bob.ID)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(bob, got); diff != "" {
			t.Fatal(diff)
		}
		if err := fx.svc.DeleteTechnician(ctx, bob.ID); err != nil {
			t.Fatal(err)
		}
		_, err = fx.svc.GetTechnician(ctx, bob.ID)
		mustAPIError(t, err, httpapi.KindHTTP, http.StatusNotFound)
		if _, found := fx.token(t); !found {
			t.Fatal("a 404 must not invalidate the session")
		}
	})
}

func TestServicePlansAndSubscription(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.login(t)

	plans, err := fx.svc.ListPlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testingx.FranchiseBackendPlans, plans); diff != "" {
		t.Fatal(diff)
	}

	plan, err := fx.svc.GetPlan(ctx, "pro")
	if err != nil {
		t.Fatal(err)
	}
	if plan.Name != "Pro" {
		t.Fatal("unexpected plan", plan)
	}

	_, err = fx.svc.Subscription(ctx)
	mustAPIError(t, err, httpapi.KindHTTP, http.StatusNotFound)

	sub, err := fx.svc.Subscribe(ctx, "pro")
	if err != nil {
		t.Fatal(err)
	}
	current, err := fx.svc.Subscription(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sub, current); diff != "" {
		t.Fatal(diff)
	}

	dashboard, err := fx.svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dashboard.Subscription == nil || dashboard.Subscription.PlanID != "pro" {
		t.Fatal("unexpected dashboard", dashboard)
	}
}

func TestServiceEarnings(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	may := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	fx.backend.AddEarning(franchise.Earning{TechnicianID: "a", AmountCents: 1000, Currency: "EUR", Date: may})
	fx.backend.AddEarning(franchise.Earning{TechnicianID: "b", AmountCents: 500, Currency: "EUR", Date: june})
	fx.backend.AddEarning(franchise.Earning{TechnicianID: "a", AmountCents: 250, Currency: "EUR", Date: june})
	fx.login(t)

	t.Run("filtered by date", func(t *testing.T) {
		items, err := fx.svc.ListEarnings(ctx, franchise.EarningsQuery{From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
		if err != nil {
			t.Fatal(err)
		}
		expect := []franchise.CurrencyTotal{{Currency: "EUR", Cents: 750, Count: 2}}
		if diff := cmp.Diff(expect, franchise.TotalEarnings(items)); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("summary filtered by technician", func(t *testing.T) {
		summary, err := fx.svc.EarningsSummary(ctx, franchise.EarningsQuery{TechnicianID: "a"})
		if err != nil {
			t.Fatal(err)
		}
		expect := &franchise.EarningsSummary{
			TotalCents:        1250,
			Currency:          "EUR",
			Count:             2,
			ByTechnicianCents: map[string]int64{"a": 1250},
		}
		if diff := cmp.Diff(expect, summary); diff != "" {
			t.Fatal(diff)
		}
	})
}
