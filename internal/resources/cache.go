// Package resources caches the lists fetched with the current session:
// companies, users, and documents-per-company. Lists are replaced whole,
// never merged, and the entire cache empties on logout.
package resources

import "github.com/bsanalyst/tui-go/internal/api"

// Cache holds the fetched lists. Loading is driven by the TUI layer's
// commands; the cache only stores and invalidates.
type Cache struct {
	companies    []api.Company
	hasCompanies bool

	users    []api.User
	hasUsers bool

	documents    []api.Document
	hasDocuments bool
	documentsOf  int // company id the cached documents belong to, 0 = none
}

// SetCompanies replaces the company list
func (c *Cache) SetCompanies(companies []api.Company) {
	c.companies = companies
	c.hasCompanies = true
}

// Companies returns the cached company list and whether one was loaded
func (c *Cache) Companies() ([]api.Company, bool) {
	return c.companies, c.hasCompanies
}

// CompanyName resolves a company id to its name, or "" when unknown
func (c *Cache) CompanyName(id int) string {
	for _, company := range c.companies {
		if company.ID == id {
			return company.Name
		}
	}
	return ""
}

// InvalidateCompanies drops the company list so the next dependency check
// reloads it
func (c *Cache) InvalidateCompanies() {
	c.companies = nil
	c.hasCompanies = false
}

// SetUsers replaces the user list
func (c *Cache) SetUsers(users []api.User) {
	c.users = users
	c.hasUsers = true
}

// Users returns the cached user list and whether one was loaded
func (c *Cache) Users() ([]api.User, bool) {
	return c.users, c.hasUsers
}

// InvalidateUsers drops the user list
func (c *Cache) InvalidateUsers() {
	c.users = nil
	c.hasUsers = false
}

// SetDocuments replaces the document list for one company. A result for a
// company other than the one currently scoped is stale and ignored.
func (c *Cache) SetDocuments(companyID int, documents []api.Document) {
	if companyID != c.documentsOf {
		return
	}
	c.documents = documents
	c.hasDocuments = true
}

// Documents returns the cached documents when they belong to companyID
func (c *Cache) Documents(companyID int) ([]api.Document, bool) {
	if companyID == 0 || companyID != c.documentsOf || !c.hasDocuments {
		return nil, false
	}
	return c.documents, true
}

// ScopeDocuments re-scopes the document cache to a company. Changing the
// scope discards the previous company's documents immediately, before any
// fresh list arrives, so stale cross-company data is never visible.
func (c *Cache) ScopeDocuments(companyID int) {
	if companyID == c.documentsOf {
		return
	}
	c.documentsOf = companyID
	c.documents = nil
	c.hasDocuments = false
}

// InvalidateDocuments drops the document list but keeps the scope, used
// after a mutation in the document domain succeeds
func (c *Cache) InvalidateDocuments() {
	c.documents = nil
	c.hasDocuments = false
}

// DocumentScope returns the company id the document cache is scoped to
func (c *Cache) DocumentScope() int {
	return c.documentsOf
}

// Clear empties everything; no list survives a logout
func (c *Cache) Clear() {
	*c = Cache{}
}
