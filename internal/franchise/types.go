package franchise

//
// Wire types exchanged with the franchise backend.
//

import "time"

// Credentials is the request body of the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile describes the logged-in franchise owner.
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	FranchiseName string    `json:"franchiseName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LoginResponse is the response of the login endpoint.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Dashboard contains the figures shown on the home screen.
type Dashboard struct {
	TotalTechnicians  int           `json:"totalTechnicians"`
	ActiveTechnicians int           `json:"activeTechnicians"`
	MonthEarnings     int64         `json:"monthEarningsCents"`
	Currency          string        `json:"currency"`
	Subscription      *Subscription `json:"subscription,omitempty"`
}

// Technician statuses.
const (
	TechnicianActive   = "active"
	TechnicianInactive = "inactive"
)

// Technician is a technician working for the franchise.
type Technician struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	Status    string    `json:"status,omitempty"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TechnicianPage is a page of technicians.
type TechnicianPage struct {
	Items []Technician `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// TechnicianQuery filters the technicians list. Zero fields are omitted.
type TechnicianQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// Values returns the query parameters to send.
func (q TechnicianQuery) Values() map[string]any {
	out := map[string]any{}
	if q.Search != "" {
		out["search"] = q.Search
	}
	if q.Status != "" {
		out["filter"] = map[string]any{"status": q.Status}
	}
	if q.Page > 0 {
		out["page"] = q.Page
	}
	if q.Limit > 0 {
		out["limit"] = q.Limit
	}
	return out
}

// Plan is a subscription plan.
type Plan struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PriceCents     int64    `json:"priceCents"`
	Currency       string   `json:"currency"`
	Interval       string   `json:"interval"`
	MaxTechnicians int      `json:"maxTechnicians"`
	Features       []string `json:"features,omitempty"`
}

// Subscription is the franchise subscription to a [Plan].
type Subscription struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"planId"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	RenewsAt  time.Time `json:"renewsAt"`
}

// Earning is a single earning entry.
type Earning struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technicianId,omitempty"`
	AmountCents  int64     `json:"amountCents"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description,omitempty"`
	Date         time.Time `json:"date"`
}

// EarningsQuery filters the earnings list. Zero fields are omitted.
type EarningsQuery struct {
	From         time.Time
	To           time.Time
	TechnicianID string
}

// Values returns the query parameters to send.
func (q EarningsQuery) Values() map[string]any {
	out := map[string]any{}
	if !q.From.IsZero() {
		out["from"] = q.From
	}
	if !q.To.IsZero() {
		out["to"] = q.To
	}
	if q.TechnicianID != "" {
		out["filter"] = map[string]any{"technicianId": q.TechnicianID}
	}
	return out
}

// EarningsSummary aggregates earnings on the server side.
type EarningsSummary struct {
	TotalCents        int64            `json:"totalCents"`
	Currency          string           `json:"currency"`
	Count             int              `json:"count"`
	ByTechnicianCents map[string]int64 `json:"byTechnicianCents,omitempty"`
}
