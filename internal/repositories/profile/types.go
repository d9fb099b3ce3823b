package profile

// Profile is the stored user record.
type Profile struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type SaveProfileInput struct {
	Profile *Profile
}

type GetProfileInput struct {
}
