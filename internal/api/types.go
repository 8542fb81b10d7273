package api

// Role is the access role attached to a backend account
type Role string

const (
	RoleAnalyst    Role = "analyst"
	RoleCEO        Role = "ceo"
	RoleGroupAdmin Role = "group_admin"
)

// Roles lists every role the backend accepts, in display order
func Roles() []Role {
	return []Role{RoleAnalyst, RoleCEO, RoleGroupAdmin}
}

// Session is the authenticated identity returned by /login
type Session struct {
	Token  string `json:"token"`
	Role   Role   `json:"role"`
	UserID int    `json:"user_id"`
}

// Company represents a company the backend knows about
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User represents a backend account (admin-only listing)
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Document represents an ingested PDF scoped to one company
type Document struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	SizeKB    int    `json:"size_kb"`
	CreatedAt string `json:"created_at"` // ISO 8601, may be empty
}

// SeedResult is the response of the idempotent /seed/admin bootstrap
type SeedResult struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

// CompanyResult is the response of POST /companies.
// Message distinguishes "created" from "already exists".
type CompanyResult struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// AlreadyExisted reports whether the company existed before the request
func (r CompanyResult) AlreadyExisted() bool {
	return r.Message != "created"
}

// GrantResult is the response of POST /grant-access.
// Message distinguishes "granted" from "already has access".
type GrantResult struct {
	Message string `json:"message"`
}

// AlreadyGranted reports whether the user already had access
func (r GrantResult) AlreadyGranted() bool {
	return r.Message != "granted"
}

// IngestResult is the response of POST /ingest-pdf
type IngestResult struct {
	Message    string `json:"message"`
	DocumentID int    `json:"document_id"`
	CompanyID  int    `json:"company_id"`
	NumChunks  int    `json:"num_chunks"`
}

// Answer is the response of POST /ask
type Answer struct {
	Answer     string `json:"answer"`
	Context    string `json:"context"`
	ChunksUsed int    `json:"chunks_used"`
	LLM        string `json:"llm"`   // model identifier, "none" when the fallback path answered
	Error      string `json:"error"` // non-fatal LLM diagnostics from the fallback path
}
