// Package franchise contains the franchise backend endpoint catalog and
// a typed [*Service] built on top of [*httpapi.Client].
package franchise

import (
	"github.com/fieldops/franchise-client/internal/endpoint"
)

// Endpoint keys known to the franchise backend.
const (
	KeyLogin                 = "login"
	KeyLogout                = "logout"
	KeyGetProfile            = "getProfile"
	KeyGetDashboard          = "getDashboard"
	KeyGetTechnicians        = "getTechnicians"
	KeyGetTechnician         = "getTechnician"
	KeyCreateTechnician      = "createTechnician"
	KeyUpdateTechnician      = "updateTechnician"
	KeyDeleteTechnician      = "deleteTechnician"
	KeyUploadTechnicianPhoto = "uploadTechnicianPhoto"
	KeyGetPlans              = "getPlans"
	KeyGetPlan               = "getPlan"
	KeySubscribePlan         = "subscribePlan"
	KeyGetSubscription       = "getSubscription"
	KeyGetEarnings           = "getEarnings"
	KeyGetEarningsSummary    = "getEarningsSummary"
)

// NewRegistry returns a registry containing all the franchise endpoints.
func NewRegistry() *endpoint.Registry {
	reg := endpoint.NewRegistry()

	// auth
	reg.MustRegister(KeyLogin, "POST", endpoint.StaticPath("/api/auth/login"))
	reg.MustRegister(KeyLogout, "POST", endpoint.StaticPath("/api/auth/logout"))
	reg.MustRegister(KeyGetProfile, "GET", endpoint.StaticPath("/api/auth/me"))

	// dashboard
	reg.MustRegister(KeyGetDashboard, "GET", endpoint.StaticPath("/api/dashboard"))

	// technicians
	reg.MustRegister(KeyGetTechnicians, "GET", endpoint.StaticPath("/api/technicians"))
	reg.MustRegister(KeyGetTechnician, "GET", endpoint.Segment("/api/technicians", ""))
	reg.MustRegister(KeyCreateTechnician, "POST", endpoint.StaticPath("/api/technicians"))
	reg.MustRegister(KeyUpdateTechnician, "PUT", endpoint.Segment("/api/technicians", ""))
	reg.MustRegister(KeyDeleteTechnician, "DELETE", endpoint.Segment("/api/technicians", ""))
	reg.MustRegister(KeyUploadTechnicianPhoto, "POST", endpoint.Segment("/api/technicians", "/photo"))

	// plans and subscription
	reg.MustRegister(KeyGetPlans, "GET", endpoint.StaticPath("/api/plans"))
	reg.MustRegister(KeyGetPlan, "GET", endpoint.Segment("/api/plans", ""))
	reg.MustRegister(KeySubscribePlan, "POST", endpoint.Segment("/api/plans", "/subscribe"))
	reg.MustRegister(KeyGetSubscription, "GET", endpoint.StaticPath("/api/subscription"))

	// earnings
	reg.MustRegister(KeyGetEarnings, "GET", endpoint.StaticPath("/api/earnings"))
	reg.MustRegister(KeyGetEarningsSummary, "GET", endpoint.StaticPath("/api/earnings/summary"))

	return reg
}
