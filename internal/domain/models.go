package domain

// ProjectRecord is one entry in the portfolio collection. The field set
// matches what the portfolio API serves, so shape drift in the JSON file
// shows up as a compile-time or validation failure instead of silently
// propagating.
type ProjectRecord struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubURL    string   `json:"github_url"`
	LiveURL      string   `json:"live_url"`
}

// ProjectCollection is the ordered set of records persisted as the root
// array of the portfolio JSON file.
type ProjectCollection []ProjectRecord

// MaxID returns the highest id in the collection, or 0 if it is empty.
func (c ProjectCollection) MaxID() int {
	max := 0
	for _, rec := range c {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max
}

// FindByName returns the first record whose name matches exactly.
func (c ProjectCollection) FindByName(name string) (ProjectRecord, bool) {
	for _, rec := range c {
		if rec.Name == name {
			return rec, true
		}
	}
	return ProjectRecord{}, false
}
