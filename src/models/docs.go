package models

// Tag groups endpoints in the API documentation.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RouteInfo struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Tag     string `json:"tag"`
	Auth    bool   `json:"auth"`
}

type DocsResponse struct {
	Service string      `json:"service"`
	Tags    []Tag       `json:"tags"`
	Routes  []RouteInfo `json:"routes"`
}
