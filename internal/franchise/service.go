package franchise

//
// Typed calls to the franchise backend.
//

import (
	"context"
	"errors"

	"github.com/fieldops/franchise-client/internal/httpapi"
	"github.com/fieldops/franchise-client/internal/model"
)

// ErrMissingToken indicates that the login response contains no token.
var ErrMissingToken = errors.New("franchise: login response without token")

// ErrNoCredentials indicates that the client has no credential store.
var ErrNoCredentials = errors.New("franchise: client without credential store")

// Service calls the franchise backend endpoints.
//
// Methods are safe for concurrent use.
type Service struct {
	// Client is the MANDATORY client used to call the backend. Its
	// Registry must contain the keys registered by [NewRegistry].
	Client *httpapi.Client
}

// NewService creates a [*Service] using the given client.
func NewService(client *httpapi.Client) *Service {
	return &Service{Client: client}
}

func (s *Service) credentials() (model.CredentialStore, error) {
	if s.Client.Credentials == nil {
		return nil, ErrNoCredentials
	}
	return s.Client.Credentials, nil
}

// Login authenticates and stores the returned token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	store, err := s.credentials()
	if err != nil {
		return nil, err
	}
	resp, err := httpapi.ExecuteJSON[*LoginResponse](ctx, s.Client, &httpapi.Request{
		Key:  KeyLogin,
		Body: httpapi.JSONBody{Value: creds},
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" {
		return nil, ErrMissingToken
	}
	if err := store.Set(ctx, resp.Token); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout notifies the backend and removes the stored credential. The
// backend call is best-effort: its failure does not prevent removal.
func (s *Service) Logout(ctx context.Context) error {
	store, err := s.credentials()
	if err != nil {
		return err
	}
	token, found, err := store.Get(ctx)
	if err != nil {
		return err
	}
	if found && !s.Client.Policy.IsDemo(token) {
		if _, err := s.Client.Execute(ctx, &httpapi.Request{Key: KeyLogout}); err != nil {
			model.ValidLoggerOrDefault(s.Client.Logger).Warnf("franchise: logout: %s", err.Error())
		}
	}
	return store.Remove(ctx)
}

// EnterDemoMode stores the demo sentinel as the credential.
func (s *Service) EnterDemoMode(ctx context.Context) error {
	store, err := s.credentials()
	if err != nil {
		return err
	}
	return store.Set(ctx, s.Client.Policy.Demo())
}

// InDemoMode returns whether the stored credential is the demo sentinel.
func (s *Service) InDemoMode(ctx context.Context) (bool, error) {
	store, err := s.credentials()
	if err != nil {
		return false, err
	}
	token, found, err := store.Get(ctx)
	if err != nil {
		return false, err
	}
	return found && s.Client.Policy.IsDemo(token), nil
}

// Profile returns the logged-in user profile.
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	return httpapi.ExecuteJSON[*Profile](ctx, s.Client, &httpapi.Request{Key: KeyGetProfile})
}

// Dashboard returns the dashboard figures.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	return httpapi.ExecuteJSON[*Dashboard](ctx, s.Client, &httpapi.Request{Key: KeyGetDashboard})
}

// ListTechnicians returns a page of technicians matching query.
func (s *Service) ListTechnicians(ctx context.Context, query TechnicianQuery) (*TechnicianPage, error) {
	return httpapi.ExecuteJSON[*TechnicianPage](ctx, s.Client, &httpapi.Request{
		Key:   KeyGetTechnicians,
		Query: query.Values(),
	})
}

// GetTechnician returns the technician with the given id.
func (s *Service) GetTechnician(ctx context.Context, id string) (*Technician, error) {
	return httpapi.ExecuteJSON[*Technician](ctx, s.Client, &httpapi.Request{
		Key:       KeyGetTechnician,
		PathParam: id,
	})
}

// CreateTechnician creates a technician and returns the stored record.
func (s *Service) CreateTechnician(ctx context.Context, tech Technician) (*Technician, error) {
	return httpapi.ExecuteJSON[*Technician](ctx, s.Client, &httpapi.Request{
		Key:  KeyCreateTechnician,
		Body: httpapi.JSONBody{Value: tech},
	})
}

// UpdateTechnician replaces the technician with the given id.
func (s *Service) UpdateTechnician(ctx context.Context, id string, tech Technician) (*Technician, error) {
	return httpapi.ExecuteJSON[*Technician](ctx, s.Client, &httpapi.Request{
		Key:       KeyUpdateTechnician,
		PathParam: id,
		Body:      httpapi.JSONBody{Value: tech},
	})
}

// DeleteTechnician deletes the technician with the given id.
func (s *Service) DeleteTechnician(ctx context.Context, id string) error {
	_, err := s.Client.Execute(ctx, &httpapi.Request{
		Key:       KeyDeleteTechnician,
		PathParam: id,
	})
	return err
}

// PhotoField is the multipart field carrying a technician photo.
const PhotoField = "photo"

// UploadTechnicianPhoto uploads the photo of the technician with the
// given id and returns the updated record.
func (s *Service) UploadTechnicianPhoto(ctx context.Context, id, filename, contentType string, content []byte) (*Technician, error) {
	return httpapi.ExecuteJSON[*Technician](ctx, s.Client, &httpapi.Request{
		Key:       KeyUploadTechnicianPhoto,
		PathParam: id,
		Body: httpapi.MultipartBody{
			Files: []httpapi.MultipartFile{{
				Field:       PhotoField,
				Filename:    filename,
				ContentType: contentType,
				Content:     content,
			}},
		},
	})
}

// ListPlans returns the available plans.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return httpapi.ExecuteJSON[[]Plan](ctx, s.Client, &httpapi.Request{Key: KeyGetPlans})
}

// GetPlan returns the plan with the given id.
func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	return httpapi.ExecuteJSON[*Plan](ctx, s.Client, &httpapi.Request{
		Key:       KeyGetPlan,
		PathParam: id,
	})
}

// Subscribe subscribes the franchise to the plan with the given id.
func (s *Service) Subscribe(ctx context.Context, planID string) (*Subscription, error) {
	return httpapi.ExecuteJSON[*Subscription](ctx, s.Client, &httpapi.Request{
		Key:       KeySubscribePlan,
		PathParam: planID,
	})
}

// Subscription returns the current subscription.
func (s *Service) Subscription(ctx context.Context) (*Subscription, error) {
	return httpapi.ExecuteJSON[*Subscription](ctx, s.Client, &httpapi.Request{Key: KeyGetSubscription})
}

// ListEarnings returns the earnings matching query.
func (s *Service) ListEarnings(ctx context.Context, query EarningsQuery) ([]Earning, error) {
	return httpapi.ExecuteJSON[[]Earning](ctx, s.Client, &httpapi.Request{
		Key:   KeyGetEarnings,
		Query: query.Values(),
	})
}

// EarningsSummary returns the server-side earnings summary.
func (s *Service) EarningsSummary(ctx context.Context, query EarningsQuery) (*EarningsSummary, error) {
	return httpapi.ExecuteJSON[*EarningsSummary](ctx, s.Client, &httpapi.Request{
		Key:   KeyGetEarningsSummary,
		Query: query.Values(),
	})
}
