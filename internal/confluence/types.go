package confluence

// Page is a Confluence page as returned by the content REST API.
type Page struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Space   Space   `json:"space"`
	Version Version `json:"version"`
	Body    Body    `json:"body"`
}

// Content returns the page body in storage format.
func (p *Page) Content() string {
	return p.Body.Storage.Value
}

// Space identifies the space a page belongs to.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Version describes one page revision.
type Version struct {
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Body holds the page representations requested through expand.
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage is the XHTML storage representation of a page.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// PageUpdate describes a new revision of an existing page.
type PageUpdate struct {
	ID      string
	Title   string
	Content string
	// Version is the current version; the update is written as Version+1.
	Version   int
	MinorEdit bool
	Message   string
	// FullWidth publishes the page with the full-width appearance.
	FullWidth bool
}

type property struct {
	Value string `json:"value"`
}

type metadata struct {
	Properties map[string]property `json:"properties"`
}

type updateRequest struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Body     Body      `json:"body"`
	Version  Version   `json:"version"`
	Metadata *metadata `json:"metadata,omitempty"`
}
