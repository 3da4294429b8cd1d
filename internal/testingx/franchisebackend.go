// Package testingx contains code useful for testing.
package testingx

//
// Fake franchise backend for testing.
//

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fieldops/franchise-client/internal/franchise"
	"github.com/fieldops/franchise-client/internal/must"
	"github.com/fieldops/franchise-client/internal/runtimex"
	"github.com/google/uuid"
)

// FranchiseBackendUserRecord is a user record used by [FranchiseBackend].
type FranchiseBackendUserRecord struct {
	Password string
	Profile  franchise.Profile
}

// FranchiseBackendPlans contains the plans served by a [FranchiseBackend].
var FranchiseBackendPlans = []franchise.Plan{{
	ID:             "basic",
	Name:           "Basic",
	PriceCents:     1900,
	Currency:       "EUR",
	Interval:       "month",
	MaxTechnicians: 5,
	Features:       []string{"dashboard"},
}, {
	ID:             "pro",
	Name:           "Pro",
	PriceCents:     4900,
	Currency:       "EUR",
	Interval:       "month",
	MaxTechnicians: 50,
	Features:       []string{"dashboard", "earnings-export", "photos"},
}}

// FranchiseBackend implements the franchise backend API.
//
// The zero value is ready to use.
//
// This struct methods panics for several errors. Only use for testing purposes!
type FranchiseBackend struct {
	// earnings contains the earnings in insertion order.
	earnings []franchise.Earning

	// logins maps an email to the corresponding record.
	logins map[string]*FranchiseBackendUserRecord

	// mu provides mutual exclusion.
	mu sync.Mutex

	// subscription is the current subscription or nil.
	subscription *franchise.Subscription

	// technicians maps a technician ID to the technician.
	technicians map[string]*franchise.Technician

	// tokens maps a bearer token to a user record.
	tokens map[string]*FranchiseBackendUserRecord
}

// initLocked initializes the maps. The caller must hold the mutex.
func (h *FranchiseBackend) initLocked() {
	if h.logins == nil {
		h.logins = make(map[string]*FranchiseBackendUserRecord)
	}
	if h.technicians == nil {
		h.technicians = make(map[string]*franchise.Technician)
	}
	if h.tokens == nil {
		h.tokens = make(map[string]*FranchiseBackendUserRecord)
	}
}

// AddUser registers a user allowed to login.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FranchiseBackend) AddUser(email, password, name string) {
	defer h.mu.Unlock()
	h.mu.Lock()
	h.initLocked()
	h.logins[email] = &FranchiseBackendUserRecord{
		Password: password,
		Profile: franchise.Profile{
			ID:            uuid.Must(uuid.NewRandom()).String(),
			Name:          name,
			Email:         email,
			FranchiseName: name + "'s franchise",
			CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// AddEarning adds an earning entry, assigning an ID if missing.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FranchiseBackend) AddEarning(earning franchise.Earning) {
	defer h.mu.Unlock()
	h.mu.Lock()
	if earning.ID == "" {
		earning.ID = uuid.Must(uuid.NewRandom()).String()
	}
	h.earnings = append(h.earnings, earning)
}

// IssueToken returns a valid token for the given email without going
// through the login endpoint. It panics if the user does not exist.
func (h *FranchiseBackend) IssueToken(email string) string {
	defer h.mu.Unlock()
	h.mu.Lock()
	h.initLocked()
	record := h.logins[email]
	runtimex.Assert(record != nil, "no such user")
	token := uuid.Must(uuid.NewRandom()).String()
	h.tokens[token] = record
	return token
}

// ExpireTokens invalidates all the issued tokens.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FranchiseBackend) ExpireTokens() {
	defer h.mu.Unlock()
	h.mu.Lock()
	h.tokens = nil
}

// NumTokens returns the number of valid tokens.
func (h *FranchiseBackend) NumTokens() int {
	defer h.mu.Unlock()
	h.mu.Lock()
	return len(h.tokens)
}

// Technician returns a copy of the technician with the given ID.
func (h *FranchiseBackend) Technician(id string) (franchise.Technician, bool) {
	defer h.mu.Unlock()
	h.mu.Lock()
	tech := h.technicians[id]
	if tech == nil {
		return franchise.Technician{}, false
	}
	return *tech, true
}

// NewMux constructs an [*http.ServeMux] configured with the correct routing.
func (h *FranchiseBackend) NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /api/auth/login", h.handleLogin())
	mux.Handle("POST /api/auth/logout", h.withAuthentication(h.handleLogout()))
	mux.Handle("GET /api/auth/me", h.withAuthentication(h.handleProfile()))
	mux.Handle("GET /api/dashboard", h.withAuthentication(h.handleDashboard()))
	mux.Handle("GET /api/technicians", h.withAuthentication(h.handleListTechnicians()))
	mux.Handle("POST /api/technicians", h.withAuthentication(h.handleCreateTechnician()))
	mux.Handle("GET /api/technicians/{id}", h.withAuthentication(h.handleGetTechnician()))
	mux.Handle("PUT /api/technicians/{id}", h.withAuthentication(h.handleUpdateTechnician()))
	mux.Handle("DELETE /api/technicians/{id}", h.withAuthentication(h.handleDeleteTechnician()))
	mux.Handle("POST /api/technicians/{id}/photo", h.withAuthentication(h.handleUploadPhoto()))
	mux.Handle("GET /api/plans", h.withAuthentication(h.handleListPlans()))
	mux.Handle("GET /api/plans/{id}", h.withAuthentication(h.handleGetPlan()))
	mux.Handle("POST /api/plans/{id}/subscribe", h.withAuthentication(h.handleSubscribe()))
	mux.Handle("GET /api/subscription", h.withAuthentication(h.handleSubscription()))
	mux.Handle("GET /api/earnings", h.withAuthentication(h.handleListEarnings()))
	mux.Handle("GET /api/earnings/summary", h.withAuthentication(h.handleEarningsSummary()))
	return mux
}

// franchiseWriteJSON writes value as a JSON response with the given status.
func franchiseWriteJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(must.MarshalJSON(value))
}

// franchiseWriteError writes a JSON error response with the given status.
func franchiseWriteError(w http.ResponseWriter, status int, message string) {
	franchiseWriteJSON(w, status, map[string]string{"message": message})
}

func (h *FranchiseBackend) handleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// unmarshal the request
		var request franchise.Credentials
		must.UnmarshalJSON(must.ReadAll(r.Body), &request)

		// lock the users database
		h.mu.Lock()
		h.initLocked()

		// make sure the user exists and the password matches
		record := h.logins[request.Email]
		if record == nil || record.Password != request.Password {
			h.mu.Unlock()
			franchiseWriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		// create and save the token
		token := uuid.Must(uuid.NewRandom()).String()
		h.tokens[token] = record
		profile := record.Profile

		// unlock the users database
		h.mu.Unlock()

		// send response
		franchiseWriteJSON(w, http.StatusOK, &franchise.LoginResponse{
			Token: token,
			User:  profile,
		})
	})
}

func (h *FranchiseBackend) handleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := franchiseBearer(r)
		h.mu.Lock()
		delete(h.tokens, token)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *FranchiseBackend) handleProfile() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := franchiseBearer(r)
		h.mu.Lock()
		record := h.tokens[token]
		var profile franchise.Profile
		if record != nil {
			profile = record.Profile
		}
		h.mu.Unlock()
		if record == nil {
			franchiseWriteError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		franchiseWriteJSON(w, http.StatusOK, &profile)
	})
}

func (h *FranchiseBackend) handleDashboard() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer h.mu.Unlock()
		h.mu.Lock()
		dashboard := &franchise.Dashboard{
			TotalTechnicians: len(h.technicians),
			Currency:         "EUR",
		}
		for _, tech := range h.technicians {
			if tech.Status == franchise.TechnicianActive {
				dashboard.ActiveTechnicians++
			}
		}
		for _, e := range h.earnings {
			if e.Currency == dashboard.Currency {
				dashboard.MonthEarnings += e.AmountCents
			}
		}
		if h.subscription != nil {
			sub := *h.subscription
			dashboard.Subscription = &sub
		}
		franchiseWriteJSON(w, http.StatusOK, dashboard)
	})
}

// franchiseQueryInt parses an optional positive integer query value.
func franchiseQueryInt(r *http.Request, name string, defval int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defval, nil
	}
	number, err := strconv.Atoi(value)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return number, nil
}

func (h *FranchiseBackend) handleListTechnicians() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := franchiseQueryInt(r, "page", 1)
		if err != nil {
			franchiseWriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, err := franchiseQueryInt(r, "limit", 20)
		if err != nil {
			franchiseWriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		search := strings.ToLower(r.URL.Query().Get("search"))
		status := r.URL.Query().Get("filter[status]")

		// collect the matching technicians sorted by name
		h.mu.Lock()
		items := []franchise.Technician{}
		for _, tech := range h.technicians {
			if search != "" && !strings.Contains(strings.ToLower(tech.Name), search) {
				continue
			}
			if status != "" && tech.Status != status {
				continue
			}
			items = append(items, *tech)
		}
		h.mu.Unlock()
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})

		// paginate
		total := len(items)
		start := min((page-1)*limit, total)
		end := min(start+limit, total)
		franchiseWriteJSON(w, http.StatusOK, &franchise.TechnicianPage{
			Items: items[start:end],
			Total: total,
			Page:  page,
			Limit: limit,
		})
	})
}

func (h *FranchiseBackend) handleCreateTechnician() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tech franchise.Technician
		must.UnmarshalJSON(must.ReadAll(r.Body), &tech)
		if tech.Name == "" {
			franchiseWriteError(w, http.StatusUnprocessableEntity, "Name is required")
			return
		}
		tech.ID = uuid.Must(uuid.NewRandom()).String()
		if tech.Status == "" {
			tech.Status = franchise.TechnicianActive
		}
		tech.CreatedAt = time.Now().UTC().Truncate(time.Second)
		h.mu.Lock()
		h.initLocked()
		h.technicians[tech.ID] = &tech
		h.mu.Unlock()
		franchiseWriteJSON(w, http.StatusCreated, &tech)
	})
}

func (h *FranchiseBackend) handleGetTechnician() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tech, found := h.Technician(r.PathValue("id"))
		if !found {
			franchiseWriteError(w, http.StatusNotFound, "Technician not found")
			return
		}
		franchiseWriteJSON(w, http.StatusOK, &tech)
	})
}

func (h *FranchiseBackend) handleUpdateTechnician() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var update franchise.Technician
		must.UnmarshalJSON(must.ReadAll(r.Body), &update)
		if update.Name == "" {
			franchiseWriteError(w, http.StatusUnprocessableEntity, "Name is required")
			return
		}
		defer h.mu.Unlock()
		h.mu.Lock()
		tech := h.technicians[r.PathValue("id")]
		if tech == nil {
			franchiseWriteError(w, http.StatusNotFound, "Technician not found")
			return
		}
		update.ID, update.CreatedAt = tech.ID, tech.CreatedAt
		if update.PhotoURL == "" {
			update.PhotoURL = tech.PhotoURL
		}
		if update.Status == "" {
			update.Status = tech.Status
		}
		*tech = update
		franchiseWriteJSON(w, http.StatusOK, tech)
	})
}

func (h *FranchiseBackend) handleDeleteTechnician() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer h.mu.Unlock()
		h.mu.Lock()
		id := r.PathValue("id")
		if h.technicians[id] == nil {
			franchiseWriteError(w, http.StatusNotFound, "Technician not found")
			return
		}
		delete(h.technicians, id)
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *FranchiseBackend) handleUploadPhoto() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			franchiseWriteError(w, http.StatusBadRequest, "Expected a multipart body")
			return
		}
		file, header, err := r.FormFile(franchise.PhotoField)
		if err != nil {
			franchiseWriteError(w, http.StatusBadRequest, "Missing photo")
			return
		}
		content := runtimex.Try1(io.ReadAll(file))
		_ = file.Close()
		if len(content) <= 0 {
			franchiseWriteError(w, http.StatusBadRequest, "Empty photo")
			return
		}
		defer h.mu.Unlock()
		h.mu.Lock()
		tech := h.technicians[r.PathValue("id")]
		if tech == nil {
			franchiseWriteError(w, http.StatusNotFound, "Technician not found")
			return
		}
		tech.PhotoURL = fmt.Sprintf("/uploads/%s/%s", tech.ID, header.Filename)
		franchiseWriteJSON(w, http.StatusOK, tech)
	})
}

// franchisePlan returns the plan with the given ID or nil.
func franchisePlan(id string) *franchise.Plan {
	for _, plan := range FranchiseBackendPlans {
		if plan.ID == id {
			return &plan
		}
	}
	return nil
}

func (h *FranchiseBackend) handleListPlans() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		franchiseWriteJSON(w, http.StatusOK, FranchiseBackendPlans)
	})
}

func (h *FranchiseBackend) handleGetPlan() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plan := franchisePlan(r.PathValue("id"))
		if plan == nil {
			franchiseWriteError(w, http.StatusNotFound, "Plan not found")
			return
		}
		franchiseWriteJSON(w, http.StatusOK, plan)
	})
}

func (h *FranchiseBackend) handleSubscribe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plan := franchisePlan(r.PathValue("id"))
		if plan == nil {
			franchiseWriteError(w, http.StatusNotFound, "Plan not found")
			return
		}
		now := time.Now().UTC().Truncate(time.Second)
		sub := &franchise.Subscription{
			ID:        uuid.Must(uuid.NewRandom()).String(),
			PlanID:    plan.ID,
			Status:    "active",
			StartedAt: now,
			RenewsAt:  now.AddDate(0, 1, 0),
		}
		h.mu.Lock()
		h.subscription = sub
		h.mu.Unlock()
		franchiseWriteJSON(w, http.StatusOK, sub)
	})
}

func (h *FranchiseBackend) handleSubscription() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		sub := h.subscription
		h.mu.Unlock()
		if sub == nil {
			franchiseWriteError(w, http.StatusNotFound, "No active subscription")
			return
		}
		franchiseWriteJSON(w, http.StatusOK, sub)
	})
}

// franchiseFilterEarnings returns the earnings matching the request query.
func (h *FranchiseBackend) franchiseFilterEarnings(r *http.Request) ([]franchise.Earning, error) {
	var from, to time.Time
	if value := r.URL.Query().Get("from"); value != "" {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.New("invalid from")
		}
		from = t
	}
	if value := r.URL.Query().Get("to"); value != "" {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.New("invalid to")
		}
		to = t
	}
	techID := r.URL.Query().Get("filter[technicianId]")
	defer h.mu.Unlock()
	h.mu.Lock()
	out := []franchise.Earning{}
	for _, e := range h.earnings {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		if techID != "" && e.TechnicianID != techID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (h *FranchiseBackend) handleListEarnings() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		earnings, err := h.franchiseFilterEarnings(r)
		if err != nil {
			franchiseWriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		franchiseWriteJSON(w, http.StatusOK, earnings)
	})
}

func (h *FranchiseBackend) handleEarningsSummary() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		earnings, err := h.franchiseFilterEarnings(r)
		if err != nil {
			franchiseWriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		summary := &franchise.EarningsSummary{
			Currency:          "EUR",
			ByTechnicianCents: map[string]int64{},
		}
		for _, e := range earnings {
			if e.Currency != summary.Currency {
				continue
			}
			summary.TotalCents += e.AmountCents
			summary.Count++
			if e.TechnicianID != "" {
				summary.ByTechnicianCents[e.TechnicianID] += e.AmountCents
			}
		}
		franchiseWriteJSON(w, http.StatusOK, summary)
	})
}

// franchiseBearer returns the bearer token in the request or an empty string.
func franchiseBearer(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return token
}

func (h *FranchiseBackend) withAuthentication(child http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get the bearer token
		token := franchiseBearer(r)

		// lock the users database
		h.mu.Lock()

		// check whether we have state
		record := h.tokens[token]

		// unlock the users database
		h.mu.Unlock()

		// handle the case of nonexisting state, which includes the demo token
		if token == "" || record == nil {
			franchiseWriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// defer to the child handler
		child.ServeHTTP(w, r)
	})
}
