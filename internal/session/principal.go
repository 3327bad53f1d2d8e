package session

import "tradepro/internal/repo"

// Role names the kind of principal a session belongs to.
type Role string

const (
	RoleMerchant Role = "merchant"
	RoleClient   Role = "client"
)

// Principal is an authenticated merchant or client. The set of
// implementations is closed: MerchantPrincipal and ClientPrincipal.
type Principal interface {
	Role() Role
	// PrincipalID is the internal id of the authenticated row.
	PrincipalID() string
	// TenantID is the internal id of the merchant the principal acts for.
	TenantID() string
	principal()
}

type MerchantPrincipal struct {
	Merchant repo.Merchant
}

func (MerchantPrincipal) Role() Role            { return RoleMerchant }
func (p MerchantPrincipal) PrincipalID() string { return p.Merchant.ID }
func (p MerchantPrincipal) TenantID() string    { return p.Merchant.ID }
func (MerchantPrincipal) principal()            {}

type ClientPrincipal struct {
	Client repo.Client
}

func (ClientPrincipal) Role() Role            { return RoleClient }
func (p ClientPrincipal) PrincipalID() string { return p.Client.ID }
func (p ClientPrincipal) TenantID() string    { return p.Client.MerchantID }
func (ClientPrincipal) principal()            {}
