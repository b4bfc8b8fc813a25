package model

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	ProfilePhoto string `json:"profile_photo"`
	Role         Role   `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
