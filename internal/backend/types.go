package backend

// Repo is a GitHub repository offered as an import candidate.
type Repo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
}

// Member is the public identity of a platform user.
type Member struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Project is an imported repository with collaboration metadata.
type Project struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url"`
	Language    string   `json:"language"`
	Stars       int      `json:"stars"`
	Owner       Member   `json:"owner"`
	Team        []Member `json:"team"`
}

// JoinRequest is a pending request to become a team member of a project.
type JoinRequest struct {
	ID             int    `json:"id"`
	SenderUsername string `json:"sender_username"`
	SenderAvatar   string `json:"sender_avatar"`
	ProjectTitle   string `json:"project_title"`
	ProjectRepoURL string `json:"project_repo_url"`
	Status         string `json:"status"`
}

// Join request resolution statuses accepted by the backend.
const (
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Profile is a user's public profile.
type Profile struct {
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Bio           string `json:"bio"`
	Skills        string `json:"skills"`
	Linkedin      string `json:"linkedin"`
	DiscordHandle string `json:"discord_handle"`
	Department    string `json:"department"`
	Year          string `json:"year"`
	AvatarURL     string `json:"avatar_url"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Bio           string `json:"bio"`
	Skills        string `json:"skills"`
	Linkedin      string `json:"linkedin"`
	FullName      string `json:"full_name"`
	Department    string `json:"department"`
	Year          string `json:"year"`
	DiscordHandle string `json:"discord_handle"`
}

// Credentials is the result of a successful login exchange.
type Credentials struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}
