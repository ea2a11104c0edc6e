package models

// Citation identifies a source document or web page an answer was built from.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
