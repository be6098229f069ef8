package account

import (
	"github.com/janisto/filif-api/internal/platform/timeutil"
	accountsvc "github.com/janisto/filif-api/internal/service/account"
)

// Account is the family account of the authenticated user.
type Account struct {
	ID        string        `json:"id"        doc:"Account ID (Firebase UID)"`
	Email     string        `json:"email"     doc:"Email address"             example:"familia@example.com"`
	FullName  string        `json:"fullName"  doc:"Account holder name"       example:"Maria Silva"`
	Premium   bool          `json:"premium"   doc:"Premium subscription flag"`
	Theme     string        `json:"theme"     doc:"UI theme"                  example:"light" enum:"light,dark"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation time"             example:"2025-03-01T10:30:00.000Z"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last update time"          example:"2025-03-01T10:30:00.000Z"`
}

// GetInput for GET /account (no parameters)
type GetInput struct{}

// UpdateInput for PATCH /account
type UpdateInput struct {
	Body struct {
		FullName *string `json:"fullName,omitempty" maxLength:"100"   doc:"Account holder name" example:"Maria Silva"`
		Theme    *string `json:"theme,omitempty"    enum:"light,dark" doc:"UI theme"            example:"dark"`
	}
}

// Output for GET and PATCH /account
type Output struct {
	Body Account
}

func toHTTPAccount(a *accountsvc.Account) Account {
	return Account{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		Premium:   a.Premium,
		Theme:     string(a.Theme),
		CreatedAt: timeutil.NewTime(a.CreatedAt),
		UpdatedAt: timeutil.NewTime(a.UpdatedAt),
	}
}
