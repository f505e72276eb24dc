package hub

// Credentials identify a hub.docker.com account. They double as the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse only cares about the token; a nil Token means the field was absent.
type loginResponse struct {
	Token *string `json:"token"`
}

type repositoryRef struct {
	Namespace string `json:"namespace" validate:"required,excludesall=/?#"`
	Name      string `json:"repository" validate:"required,excludesall=/?#"`
}

type fullDescriptionPatch struct {
	FullDescription string `json:"full_description"`
}

type descriptionPatch struct {
	Description string `json:"description"`
}

type Permissions struct {
	Read  bool `json:"read"`
	Write bool `json:"write"`
	Admin bool `json:"admin"`
}

// Repository is the typed subset of the repository document the site frontend relies on.
type Repository struct {
	User            string      `json:"user"`
	Name            string      `json:"name"`
	Namespace       string      `json:"namespace"`
	RepositoryType  string      `json:"repository_type"`
	Status          int         `json:"status"`
	Description     string      `json:"description"`
	IsPrivate       bool        `json:"is_private"`
	IsAutomated     bool        `json:"is_automated"`
	CanEdit         bool        `json:"can_edit"`
	StarCount       int         `json:"star_count"`
	PullCount       int64       `json:"pull_count"`
	LastUpdated     string      `json:"last_updated"`
	HasStarred      bool        `json:"has_starred"`
	FullDescription string      `json:"full_description"`
	Affiliation     string      `json:"affiliation"`
	Permissions     Permissions `json:"permissions"`
}

// RepositoryInfo pairs the typed view with the document exactly as it was received, so fields
// unknown to Repository are not lost.
type RepositoryInfo struct {
	Repository
	Raw map[string]interface{}
}
