package retrieval

// Display fields a namespace can request.
const (
	FieldLink  = "link"
	FieldTitle = "title"
	FieldText  = "text"
)

// Record is one document indexed into a namespace.
type Record struct {
	ID    string `yaml:"id"`
	Link  string `yaml:"link"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// embeddingInput is the text a record is indexed by.
func (r Record) embeddingInput() string {
	switch {
	case r.Title != "" && r.Text != "":
		return r.Title + "\n" + r.Text
	case r.Text != "":
		return r.Text
	default:
		return r.Title
	}
}

// Match is a raw backend hit. Fields holds only the values the backend has;
// an absent key means the stored record lacks that field.
type Match struct {
	Fields map[string]string
	Score  float64
}

// Hit is a retrieval result reduced to its configured display fields.
type Hit struct {
	Namespace string `json:"namespace"`
	Link      string `json:"link,omitempty"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text,omitempty"`
}

// NamespaceResult is the outcome of one namespace lookup.
type NamespaceResult struct {
	Namespace string
	Role      string
	Hits      []Hit
	// Err is set when the lookup degraded to an empty list.
	Err error
}

// Augmentation holds every namespace result in configuration order.
type Augmentation struct {
	Results []NamespaceResult
}

// ByRole returns the hits of every namespace with the given role.
func (a *Augmentation) ByRole(role string) []Hit {
	var hits []Hit
	for _, r := range a.Results {
		if r.Role == role {
			hits = append(hits, r.Hits...)
		}
	}
	return hits
}

// Degraded lists the namespaces whose lookup failed.
func (a *Augmentation) Degraded() []string {
	var names []string
	for _, r := range a.Results {
		if r.Err != nil {
			names = append(names, r.Namespace)
		}
	}
	return names
}
