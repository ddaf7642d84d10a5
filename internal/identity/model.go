package identity

import "time"

// Identity is the client account as the core sees it. The credential
// never leaves the backend; dashboards only ever hold this projection.
type Identity struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the registration payload for a new account.
type Profile struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// Branch is the checkout identity decision: does this email already
// have an account.
type Branch string

const (
	BranchExisting Branch = "EXISTING"
	BranchNew      Branch = "NEW"
)
