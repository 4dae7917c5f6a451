package models

import "github.com/golang-jwt/jwt/v5"

// AccountType is the caller's role, resolved server side from registry membership.
type AccountType string

const (
	AccountAdmin   AccountType = "admin"
	AccountFaculty AccountType = "faculty"
	AccountStudent AccountType = "student"
)

// Principal is the authenticated caller.
type Principal struct {
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	CourseCodes []string    `json:"courseCodes,omitempty"`
}

// OwnsCourse reports whether the principal is instructor in charge of courseCode.
func (p Principal) OwnsCourse(courseCode string) bool {
	for _, code := range p.CourseCodes {
		if code == courseCode {
			return true
		}
	}
	return false
}

// SessionClaims is the payload minted by the session provider.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}
